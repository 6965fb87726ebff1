package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/andresuchdata/stockwise/internal/analytics"
	"github.com/andresuchdata/stockwise/internal/domain"
)

const (
	forecastSystemPrompt = "You are StockWise AI, an expert inventory planning analyst. Your task is to provide a contextual demand forecast " +
		"for a small business product. Combine the historical sales trends with any provided qualitative context. " +
		"The final output must be a plain-language explanation of the expected demand, clearly stating the " +
		"reasoning based on the data and the context. Use the average sales trend to inform your prediction."

	recommendationSystemPrompt = "You are StockWise AI, an expert inventory manager. Your task is to explain " +
		"concrete, actionable reorder recommendations based on the provided inputs. " +
		"The output MUST be a plain-language instruction, starting with 'Actionable Recommendation:', followed by the suggested point and quantity. " +
		"The reorder figures below are already calculated; use them as given."

	scenarioSystemPrompt = "You are StockWise AI, a strategic planning consultant. Your task is to analyze a hypothetical " +
		"business scenario and provide a detailed, plain-language analysis of the likely impact on the product's demand, " +
		"reorder points, and overall inventory strategy. Focus on quantifying the potential change where possible. " +
		"The output MUST be a strategic report, starting with the heading 'Scenario Analysis Report:'."
)

var promptTemplates = template.Must(template.New("prompts").Parse(`
{{define "forecast"}}SKU Name: {{.SKU.Name}}
SKU Description: {{.SKU.Description}}
Forecast Period: {{.Period}}

Historical Sales (Aggregated Weekly Data): {{.HistoryJSON}}
Average Weekly Sales (Units): {{.Average}}

Qualitative Context/External Factors (if any): {{.ExternalFactors}}

Based on this data, provide a Plain-Language Demand Suggestion for the "{{.Period}}" period.
Also, provide a single, most likely Numerical Forecast (integer units) for the demand during this period,
making sure to explain the change from the average based on the external factors.
{{end}}
{{define "recommendation"}}SKU Name: {{.SKU.Name}}
Current Stock Level: {{.SKU.CurrentStockLevel}} units

Average Weekly Demand: {{.Baseline}} units
Supplier Lead Time (days): {{.LeadTimeDays}}
Safety Stock (units): {{.SafetyStock}}
{{if .Note}}
{{.Note}}
{{end}}
Calculated figures:
- Average Daily Demand = Average Weekly Demand / 7 = {{.Daily}} units
- Reorder Point = (Average Daily Demand * Lead Time in Days) + Safety Stock = {{.ReorderPoint}} units
- Reorder Quantity = 4 * Average Weekly Demand = {{.ReorderQuantity}} units
- Days of stock cover at current demand: {{.DaysOfCover}}

Task: Based on the data above, state the Reorder Point and Reorder Quantity in plain, simple language
and say whether an order should be placed now.
{{end}}
{{define "scenario"}}SKU Name: {{.SKU.Name}}
SKU Description: {{.SKU.Description}}
Current Stock Level: {{.SKU.CurrentStockLevel}} units
Current Average Weekly Demand: {{.Average}} units

Hypothetical Scenario to Analyze: "{{.Scenario}}"

Task: Analyze the scenario. Specifically, provide the following:
1. A prediction of how the Average Weekly Demand might change (e.g., "Demand would increase by 30%").
2. A qualitative assessment of the inventory risk (e.g., "High risk of stockout").
3. Suggested action steps for the inventory manager.
{{end}}`))

func renderPrompt(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

func forecastPrompt(sku *domain.SKU, period, factors string, trend analytics.TrendSummary) (string, error) {
	history, err := json.Marshal(trend.SalesOverTime)
	if err != nil {
		return "", err
	}
	return renderPrompt("forecast", map[string]any{
		"SKU":             sku,
		"Period":          period,
		"HistoryJSON":     string(history),
		"Average":         analytics.FormatFixed(trend.AverageSalesPerPeriod),
		"ExternalFactors": factors,
	})
}

func recommendationPrompt(sku *domain.SKU, baseline analytics.BaselineDemand, plan analytics.ReorderPlan, pos analytics.StockPosition) (string, error) {
	note := ""
	if baseline.Substituted {
		note = fmt.Sprintf("NOTE: Actual sales history is below the minimum. Forecasting uses a conservative baseline demand of %s units per week for calculation.",
			analytics.FormatFixed(baseline.FloorUsed))
	}
	return renderPrompt("recommendation", map[string]any{
		"SKU":             sku,
		"Baseline":        analytics.FormatFixed(baseline.Value),
		"LeadTimeDays":    plan.Inputs.LeadTimeDays,
		"SafetyStock":     plan.Inputs.SafetyStockUnits,
		"Note":            note,
		"Daily":           analytics.FormatFixed(plan.AverageDailyDemand),
		"ReorderPoint":    analytics.FormatFixed(plan.ReorderPoint),
		"ReorderQuantity": analytics.FormatFixed(plan.ReorderQuantity),
		"DaysOfCover":     analytics.FormatFixed(pos.DaysOfCover),
	})
}

func scenarioPrompt(sku *domain.SKU, scenario string, trend analytics.TrendSummary) (string, error) {
	return renderPrompt("scenario", map[string]any{
		"SKU":      sku,
		"Average":  analytics.FormatFixed(trend.AverageSalesPerPeriod),
		"Scenario": scenario,
	})
}
