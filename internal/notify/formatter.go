// Package notify formats a finalized payment request into the positional
// parameter list required by the messaging template.
package notify

import (
	"strings"

	"fbarbosa/cobrador/internal/catalog"
	"fbarbosa/cobrador/internal/dateutils"
	"fbarbosa/cobrador/internal/models"

	"github.com/shopspring/decimal"
)

// amountWidth is the fixed width every formatted amount is padded to, so the
// template placeholders align visually in the delivered message.
const amountWidth = 7

// taxKey and totalKey are the synthetic parameter keys appended after the
// catalog categories.
const (
	taxKey   = "tax"
	totalKey = "total"
)

// TemplateParam is one ordered key/value pair for the message template.
type TemplateParam struct {
	Key   string
	Value string
}

// FormatAmount renders an amount with two decimals, a comma decimal
// separator, left-padded with spaces to the fixed width.
func FormatAmount(amount decimal.Decimal) string {
	s := strings.Replace(amount.StringFixed(2), ".", ",", 1)
	if pad := amountWidth - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

// TemplateParams maps the payment items (categorized debts plus the tax
// line) into the ordered parameter list: one entry per catalog category in
// catalog order, then "tax", then "total". A category without a matching
// item gets a zero placeholder; on a verified set this should not occur.
func TemplateParams(items []models.PaymentItem, cat catalog.Catalog) []TemplateParam {
	amounts := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, item := range items {
		key := catalog.NormalizeHint(item.Title)
		if _, seen := amounts[key]; !seen {
			amounts[key] = item.Amount
		}
		total = total.Add(item.Amount)
	}

	params := make([]TemplateParam, 0, cat.Size()+2)
	for _, category := range cat.Categories() {
		key := strings.ToLower(category.Name)
		amount, ok := amounts[key]
		if !ok {
			amount = decimal.Zero
		}
		params = append(params, TemplateParam{Key: key, Value: FormatAmount(amount)})
	}

	tax, ok := amounts[taxKey]
	if !ok {
		tax = decimal.Zero
	}
	params = append(params, TemplateParam{Key: taxKey, Value: FormatAmount(tax)})
	params = append(params, TemplateParam{Key: totalKey, Value: FormatAmount(total)})
	return params
}

// BodyParams assembles the full positional body of the message template: the
// recipient's name, the billing month, then every formatted amount in order.
func BodyParams(contactName string, month dateutils.BillingMonth, params []TemplateParam) []string {
	body := make([]string, 0, len(params)+2)
	body = append(body, contactName, month.Display())
	for _, p := range params {
		body = append(body, p.Value)
	}
	return body
}
