package controllers

import (
	"github.com/gofiber/fiber/v2"

	"brideal-backend/middlewares"
	"brideal-backend/models"
	"brideal-backend/utils"
)

type DealerInput struct {
	Name        string `json:"name" validate:"required"`
	BranchId    string `json:"branch_id"`
	Salesperson string `json:"salesperson"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
}

type DealerPatch struct {
	Name        *string `json:"name"`
	BranchId    *string `json:"branch_id"`
	Salesperson *string `json:"salesperson"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
}

func CreateDealer(c *fiber.Ctx) error {
	var input DealerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	dealer := models.Dealer{
		Name:        input.Name,
		BranchId:    input.BranchId,
		Salesperson: input.Salesperson,
		Email:       input.Email,
		Phone:       input.Phone,
	}

	tx := requestDB(c)
	if err := tx.Create(&dealer).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create dealer",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(dealer)
}

func GetDealers(c *fiber.Ctx) error {
	var dealers []models.Dealer
	tx := requestDB(c)
	tx.Model(&models.Dealer{}).Order("name").Find(&dealers)
	return c.JSON(fiber.Map{
		"dealers": dealers,
		"message": "success",
	})
}

func UpdateDealer(c *fiber.Ctx) error {
	var patch DealerPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	tx := requestDB(c)
	res := tx.Model(&models.Dealer{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not update dealer",
			"error":   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "dealer not found")
	}

	var dealer models.Dealer
	tx.First(&dealer, "id = ?", c.Params("id"))
	return c.JSON(dealer)
}
