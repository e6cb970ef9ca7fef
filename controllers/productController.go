package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"brideal-backend/models"
	"brideal-backend/utils"
)

type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	SKU         string `json:"sku"`
	UnitPrice   string `json:"unit_price"`
	Active      string `json:"active"`
}

// CreateProducts batch-imports price book rows (the CSV editor posts the
// whole sheet at once).
func CreateProducts(c *fiber.Ctx) error {
	var inputs []ProductInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	tx := requestDB(c)
	var created []models.Product

	for i, input := range inputs {
		unitPrice, err := strconv.ParseFloat(strings.TrimSpace(input.UnitPrice), 64)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid unit price at index %d", i),
			})
		}

		active, err := strconv.ParseBool(strings.TrimSpace(input.Active))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid active value at index %d", i),
			})
		}

		product := models.Product{
			Name:        strings.TrimSpace(input.Name),
			Description: strings.TrimSpace(input.Description),
			Category:    strings.TrimSpace(input.Category),
			SKU:         strings.TrimSpace(input.SKU),
			UnitPrice:   utils.Round2(unitPrice),
			Active:      active,
		}

		if err := tx.Create(&product).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{
				"message": fmt.Sprintf("Could not create product at index %d", i),
				"error":   err.Error(),
			})
		}

		created = append(created, product)
	}

	return c.Status(201).JSON(created)
}

// GetProducts lists the price book with optional ?category= filter and
// limit/offset paging.
func GetProducts(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	tx := requestDB(c).Model(&models.Product{})
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		tx = tx.Where("category = ?", cat)
	}

	var products []models.Product
	tx.Order("name").Limit(limit).Offset(offset).Find(&products)
	return c.JSON(fiber.Map{
		"products": products,
		"message":  "success",
	})
}

// ProductPatch uses pointer fields so only supplied values reach the UPDATE.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	SKU         *string  `json:"sku"`
	UnitPrice   *float64 `json:"unit_price"`
	Active      *bool    `json:"active"`
}

func UpdateProduct(c *fiber.Ctx) error {
	var patch ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	tx := requestDB(c)
	res := tx.Model(&models.Product{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not update product",
			"error":   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	var product models.Product
	tx.First(&product, "id = ?", c.Params("id"))
	return c.JSON(product)
}
