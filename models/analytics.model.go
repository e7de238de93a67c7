package models

// AnalyticsSummary holds the storewide aggregate counts
type AnalyticsSummary struct {
	Users        int64   `json:"users"`
	Products     int64   `json:"products"`
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
}

// DailySale is one calendar day's sales bucket. Date is formatted
// as YYYY-MM-DD; days without orders report zero sales and revenue.
type DailySale struct {
	Date    string  `bson:"_id" json:"date"`
	Sales   int     `bson:"sales" json:"sales"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}
