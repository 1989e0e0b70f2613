// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
package usecases

import (
	"strings"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
)

// blankPlaceholder stands in for missing fields so normalization stays total.
const blankPlaceholder = "unknown"

// Normalize renders a record as fluent prose, one clause per field in a
// fixed order. The extractive QA model answers best over natural sentences,
// and each field value must survive as an exact contiguous substring so a
// span over it is a valid answer. Deterministic and pure: same record in,
// same text out.
func Normalize(r entities.Record) string {
	var sb strings.Builder
	sb.WriteString("The company name is ")
	sb.WriteString(orPlaceholder(r.Name))
	sb.WriteString(". It operates in the ")
	sb.WriteString(orPlaceholder(r.Industry))
	sb.WriteString(" industry, specifically the ")
	sb.WriteString(orPlaceholder(r.Sector))
	sb.WriteString(" sector. The headquarters is located in ")
	sb.WriteString(orPlaceholder(r.HQState))
	sb.WriteString(". The annual revenue is $")
	sb.WriteString(orPlaceholder(r.Revenue))
	sb.WriteString(" Billion. The company has ")
	sb.WriteString(orPlaceholder(r.Employees))
	sb.WriteString(" employees.")
	return sb.String()
}

func orPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return blankPlaceholder
	}
	return v
}
