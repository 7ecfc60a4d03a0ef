package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type salesPoint struct {
	Date       string  `json:"_id"`
	TotalSales float64 `json:"totalSales"`
}

type dashboardResponse struct {
	UsersCount  int64        `json:"usersCount"`
	OrdersCount int64        `json:"ordersCount"`
	TotalSales  float64      `json:"totalSales"`
	SalesData   []salesPoint `json:"salesData"`
}

type dailySalesRow struct {
	Date       string  `json:"_id"`
	DailySales float64 `json:"dailySales"`
	Count      int64   `json:"count"`
}

func GetDashboardStats(stats StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/stats"
		defer handlePanic(c, route)

		dashboard, err := stats.Dashboard(c.Request.Context())
		if err != nil {
			respondError(c, route, err)
			return
		}

		resp := dashboardResponse{
			UsersCount:  dashboard.UsersCount,
			OrdersCount: dashboard.OrdersCount,
			TotalSales:  dashboard.TotalSales.InexactFloat64(),
			SalesData:   make([]salesPoint, 0, len(dashboard.SalesData)),
		}
		for _, day := range dashboard.SalesData {
			resp.SalesData = append(resp.SalesData, salesPoint{Date: day.Date, TotalSales: day.Sales.InexactFloat64()})
		}
		c.JSON(http.StatusOK, resp)
	}
}

func GetSalesSummary(stats StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/stats/summary"
		defer handlePanic(c, route)

		days, err := stats.DailySummary(c.Request.Context())
		if err != nil {
			respondError(c, route, err)
			return
		}

		rows := make([]dailySalesRow, 0, len(days))
		for _, day := range days {
			rows = append(rows, dailySalesRow{Date: day.Date, DailySales: day.Sales.InexactFloat64(), Count: day.Count})
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
	}
}
