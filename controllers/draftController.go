package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"brideal-backend/middlewares"
	"brideal-backend/models"
	"brideal-backend/quote"
)

// DraftRequest wraps the deal form with an optional display name. When no
// name is given one is derived from the customer, the way the desktop app
// named its draft files.
type DraftRequest struct {
	DraftName string      `json:"draftName"`
	Deal      DealRequest `json:"deal" validate:"required"`
}

// SaveDraft serializes the (pre-build) document and stores it.
func SaveDraft(c *fiber.Ctx) error {
	var req DraftRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := buildDocument(&req.Deal)
	if err != nil {
		return err
	}
	payload, err := quote.MarshalDraft(b.Document())
	if err != nil {
		return err
	}

	name := req.DraftName
	if name == "" {
		name = fmt.Sprintf("%s_%s", sanitizeName(req.Deal.Customer.Name), time.Now().Format("20060102_150405"))
	}

	userID, _ := c.Locals("userID").(string)
	draft := models.Draft{
		Name:      name,
		Payload:   datatypes.JSON(payload),
		CreatedBy: userID,
	}

	tx := requestDB(c)
	if err := tx.Create(&draft).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not save draft")
	}
	return c.Status(fiber.StatusCreated).JSON(draft)
}

// GetDrafts lists drafts newest-first, payloads omitted.
func GetDrafts(c *fiber.Ctx) error {
	var drafts []models.Draft
	tx := requestDB(c)
	if err := tx.Select("id", "name", "created_by", "created_at", "updated_at").
		Order("updated_at DESC").Find(&drafts).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list drafts")
	}
	return c.JSON(fiber.Map{
		"drafts":  drafts,
		"message": "success",
	})
}

// GetDraft decodes a stored draft back into a document. A payload that no
// longer parses surfaces as a corrupt-draft error, not a blank deal.
func GetDraft(c *fiber.Ctx) error {
	var draft models.Draft
	tx := requestDB(c)
	if err := tx.First(&draft, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "draft not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not load draft")
	}

	doc, err := quote.UnmarshalDraft(draft.Payload)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"id":       draft.ID,
		"name":     draft.Name,
		"document": doc,
	})
}

// UpdateDraft replaces a draft's payload (and optionally its name) in place.
func UpdateDraft(c *fiber.Ctx) error {
	var req DraftRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := buildDocument(&req.Deal)
	if err != nil {
		return err
	}
	payload, err := quote.MarshalDraft(b.Document())
	if err != nil {
		return err
	}

	tx := requestDB(c)
	var draft models.Draft
	if err := tx.First(&draft, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "draft not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not load draft")
	}

	draft.Payload = datatypes.JSON(payload)
	if req.DraftName != "" {
		draft.Name = req.DraftName
	}
	if err := tx.Save(&draft).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update draft")
	}
	return c.JSON(draft)
}

func DeleteDraft(c *fiber.Ctx) error {
	tx := requestDB(c)
	res := tx.Delete(&models.Draft{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete draft")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "draft not found")
	}
	return c.JSON(fiber.Map{"message": "draft deleted"})
}
