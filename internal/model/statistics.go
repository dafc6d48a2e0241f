package model

import (
	"time"
)

// StatisticsResponse aggregates sales and labor totals for a time range
type StatisticsResponse struct {
	TotalOrderValue    float64          `json:"total_order_value"`
	TotalCost          float64          `json:"total_cost"`
	TotalPartnerSplits float64          `json:"total_partner_splits"`
	Profit             float64          `json:"profit"`
	TotalOrders        int              `json:"total_orders"`
	TotalHoursWorked   float64          `json:"total_hours_worked"`
	TotalLaborCost     float64          `json:"total_labor_cost"`
	TopProducts        []ProductRanking `json:"top_products"`
	TimeRangeStartDate time.Time        `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time        `json:"time_range_end_date"`
}

// ProductRanking represents a ranked product based on accumulated quantities
type ProductRanking struct {
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	ProductSKU    string  `json:"product_sku"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
}
