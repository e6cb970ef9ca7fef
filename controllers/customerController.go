package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"brideal-backend/middlewares"
	"brideal-backend/models"
	"brideal-backend/utils"
)

type CustomerInput struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	Region        string `json:"region"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// CustomerPatch uses pointer fields so only supplied values reach the UPDATE.
type CustomerPatch struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Street        *string `json:"street"`
	City          *string `json:"city"`
	Region        *string `json:"region"`
	PostalCode    *string `json:"postal_code"`
	Country       *string `json:"country"`
	Active        *bool   `json:"active"`
}

func CreateCustomer(c *fiber.Ctx) error {
	var input CustomerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	customer := models.Customer{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Street:        input.Street,
		City:          input.City,
		Region:        input.Region,
		PostalCode:    input.PostalCode,
		Country:       input.Country,
		Active:        true,
	}

	tx := requestDB(c)
	if err := tx.Create(&customer).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create customer",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

func GetCustomers(c *fiber.Ctx) error {
	var customers []models.Customer
	tx := requestDB(c)
	tx.Model(&models.Customer{}).Order("name").Find(&customers)
	return c.JSON(fiber.Map{
		"customers": customers,
		"message":   "success",
	})
}

func GetCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	tx := requestDB(c)
	if err := tx.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not load customer")
	}
	return c.JSON(customer)
}

func UpdateCustomer(c *fiber.Ctx) error {
	var patch CustomerPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	tx := requestDB(c)
	res := tx.Model(&models.Customer{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not update customer",
			"error":   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "customer not found")
	}

	var customer models.Customer
	tx.First(&customer, "id = ?", c.Params("id"))
	return c.JSON(customer)
}
