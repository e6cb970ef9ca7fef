package controllers

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"brideal-backend/database"
)

// requestDB returns the per-request transaction installed by
// middlewares.RequestTx, falling back to the shared handle.
func requestDB(c *fiber.Ctx) *gorm.DB {
	if tx, ok := c.Locals("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return database.DB
}

// opt maps an empty string to nil so the builder treats it as "not supplied".
func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var unsafeNameChars = regexp.MustCompile(`[^\w\s-]`)
var nameSpaces = regexp.MustCompile(`\s+`)

// sanitizeName turns a customer name into a filesystem/attachment-safe slug.
func sanitizeName(name string) string {
	cleaned := unsafeNameChars.ReplaceAllString(name, "")
	cleaned = nameSpaces.ReplaceAllString(strings.TrimSpace(cleaned), "_")
	if cleaned == "" || cleaned == "_" {
		return "UnnamedDeal"
	}
	return cleaned
}
