package handlers

import (
	"math"
	"strconv"
	"strings"

	"catalog/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// parseProductFilter builds a filter from the query string. Malformed values
// are treated as absent instead of failing the request.
func parseProductFilter(c *fiber.Ctx) repositories.ProductFilter {
	f := repositories.ProductFilter{
		Page:      positiveInt(c.Query("page")),
		PageSize:  positiveInt(c.Query("pageSize")),
		Sort:      repositories.ParseSortKey(c.Query("sort")),
		Direction: repositories.ParseDirection(c.Query("method")),
	}

	// q is matched as a literal substring, whitespace included.
	if q := c.Query("q"); q != "" {
		f.Query = &q
	}
	f.MinPrice = nonNegativeFloat(c.Query("minPrice"))
	f.MaxPrice = nonNegativeFloat(c.Query("maxPrice"))

	switch strings.ToLower(c.Query("inStock")) {
	case "true":
		v := true
		f.InStock = &v
	case "false":
		v := false
		f.InStock = &v
	}

	for _, raw := range c.Context().QueryArgs().PeekMulti("category") {
		for _, part := range strings.Split(string(raw), ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil || id == 0 {
				continue
			}
			f.CategoryIDs = append(f.CategoryIDs, uint(id))
		}
	}

	return f.Normalized()
}

// positiveInt returns 0 for anything but a positive integer; Normalized then
// applies the default.
func positiveInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func nonNegativeFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseID accepts only a positive integer path parameter.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
