package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"alltech-pos/internal/reports"
	"alltech-pos/internal/store"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
)

// Agent is the tool-calling assistant behind /api/ask and the scheduled
// insight jobs. It reads the ledger and the aggregation engine through the
// same services the handlers use.
type Agent struct {
	Store   *store.Store
	Reports *reports.Engine
	APIKey  string
}

const maxToolRounds = 5

// Run sends the user message through Gemini, executing tool calls until the
// model produces a text answer.
func (a *Agent) Run(ctx context.Context, userMessage string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.APIKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the shop's POS assistant.

RULES:
1. UPDATE: If a user asks to update a product by NAME, do NOT ask for the ID.
   Call 'check_inventory' to find the ID, then 'update_product_price' with it.
2. READ: For PRICE, STOCK or DETAILS of a product, call 'check_inventory'
   and read the JSON to answer. Never claim you cannot get the price.
3. SALES: For sales or revenue questions, use 'get_sales_report'.
4. STOCK ALERTS: For items running out, use 'low_stock'.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full inventory list. Use this to find ANY product details like ID, Name, Price, or Stock.",
				},
				{
					Name:        "update_product_price",
					Description: "Update the price of a specific product using its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeInteger, Description: "ID of the product"},
							"new_price":  {Type: genai.TypeNumber, Description: "New price"},
						},
						Required: []string{"product_id", "new_price"},
					},
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales revenue and receipt count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "low_stock",
					Description: "List products at or below a quantity threshold.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"threshold": {Type: genai.TypeInteger, Description: "Quantity threshold (default 3)"},
						},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		funcCall, ok := firstFunctionCall(resp)
		if !ok {
			return printResponse(resp), nil
		}

		toolResp := genai.FunctionResponse{
			Name:     funcCall.Name,
			Response: a.executeTool(ctx, funcCall),
		}
		resp, err = session.SendMessage(ctx, toolResp)
		if err != nil {
			return "", err
		}
	}

	return printResponse(resp), nil
}

func firstFunctionCall(resp *genai.GenerateContentResponse) (genai.FunctionCall, bool) {
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			return funcCall, true
		}
	}
	return genai.FunctionCall{}, false
}

func (a *Agent) executeTool(ctx context.Context, funcCall genai.FunctionCall) map[string]interface{} {
	switch funcCall.Name {
	case "check_inventory":
		return a.checkInventory(ctx)
	case "update_product_price":
		return a.updatePrice(ctx, funcCall.Args)
	case "get_sales_report":
		return a.salesReport(ctx, funcCall.Args)
	case "low_stock":
		return a.lowStock(ctx, funcCall.Args)
	}
	return map[string]interface{}{"error": "unknown tool"}
}

func (a *Agent) checkInventory(ctx context.Context) map[string]interface{} {
	products, err := a.Store.Products(ctx)
	if err != nil {
		return map[string]interface{}{"error": "failed to read inventory"}
	}

	type simpleProduct struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Stock int    `json:"stock"`
		Price string `json:"price"`
	}
	simpleList := make([]simpleProduct, 0, len(products))
	for _, p := range products {
		simpleList = append(simpleList, simpleProduct{
			ID:    p.ID,
			Name:  p.Name,
			Stock: p.Quantity,
			Price: p.Price.StringFixed(2),
		})
	}

	jsonBytes, _ := json.Marshal(simpleList)
	return map[string]interface{}{"inventory": string(jsonBytes)}
}

func (a *Agent) updatePrice(ctx context.Context, args map[string]any) map[string]interface{} {
	productID, ok1 := args["product_id"].(float64)
	newPrice, ok2 := args["new_price"].(float64)
	if !ok1 || !ok2 {
		return map[string]interface{}{"status": "invalid arguments"}
	}

	price := decimal.NewFromFloat(newPrice)
	_, err := a.Store.UpdateProduct(ctx, uint(productID), store.ProductUpdate{Price: &price})
	if err != nil {
		return map[string]interface{}{"status": "Product ID not found"}
	}
	return map[string]interface{}{"status": "Success", "new_price": newPrice}
}

func (a *Agent) salesReport(ctx context.Context, args map[string]any) map[string]interface{} {
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return map[string]interface{}{"error": "Dates must be in YYYY-MM-DD format"}
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := a.Reports.SalesBetween(ctx, start, end)
	if err != nil {
		return map[string]interface{}{"error": "Error calculating sales"}
	}
	return map[string]interface{}{
		"revenue":     report.TotalRevenue.StringFixed(2),
		"sales_count": report.TotalCount,
	}
}

func (a *Agent) lowStock(ctx context.Context, args map[string]any) map[string]interface{} {
	threshold := 3
	if raw, ok := args["threshold"].(float64); ok {
		threshold = int(raw)
	}

	products, err := a.Store.LowStock(ctx, threshold)
	if err != nil {
		return map[string]interface{}{"error": "failed to read inventory"}
	}

	jsonBytes, _ := json.Marshal(products)
	return map[string]interface{}{"low_stock": string(jsonBytes)}
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
