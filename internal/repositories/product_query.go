package repositories

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-folded LIKE pattern that matches q as a literal
// substring. SQLite's LOWER folds ASCII letters only, so the pattern gets the
// same folding there; Postgres lowers the full Unicode range.
func containsPattern(q, dialect string) string {
	if dialect == "sqlite" {
		q = asciiLower(q)
	} else {
		q = strings.ToLower(q)
	}
	return "%" + likeEscaper.Replace(q) + "%"
}

// asciiLower lowers A-Z and leaves every other rune alone.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// filterScope applies the filter predicates only. The count query and the
// data query both use it, so total always matches the rows reachable by paging.
func filterScope(f ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Query != nil && *f.Query != "" {
			pattern := containsPattern(*f.Query, db.Dialector.Name())
			db = db.Where(
				`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`,
				pattern, pattern,
			)
		}
		if f.MinPrice != nil {
			db = db.Where("products.price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("products.price <= ?", *f.MaxPrice)
		}
		if f.InStock != nil {
			db = db.Where("products.in_stock = ?", *f.InStock)
		}
		if len(f.CategoryIDs) > 0 {
			db = db.Where(
				"products.id IN (SELECT product_id FROM product_categories WHERE category_id IN ?)",
				f.CategoryIDs,
			)
		}
		return db
	}
}

// sortScope orders by a whitelisted column. Relevance and unknown keys leave
// the order to the store.
func sortScope(f ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		col := f.Sort.Column()
		if col == "" {
			return db
		}
		return db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "products", Name: col},
			Desc:   f.Direction != Asc,
		})
	}
}

func pageScope(f ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(f.Offset()).Limit(f.PageSize)
	}
}
