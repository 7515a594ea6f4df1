package dto

type OverviewResponse struct {
	UsersByRole      map[string]int `json:"users_by_role"`
	TotalUsers       int            `json:"total_users"`
	TotalAgents      int            `json:"total_agents"`
	TotalBookings    int            `json:"total_bookings"`
	TotalRevenue     float64        `json:"total_revenue"`
	UnverifiedAgents int            `json:"unverified_agents"`
}

type DayEarnings struct {
	Day      string  `json:"day"`
	Earnings float64 `json:"earnings"`
}

type DayDeliveries struct {
	Day        string `json:"day"`
	Deliveries int    `json:"deliveries"`
}

type AgentStatsResponse struct {
	AgentID             string          `json:"agent_id"`
	DeliveriesCompleted int             `json:"deliveries_completed"`
	TotalEarnings       float64         `json:"total_earnings"`
	TodayEarnings       float64         `json:"today_earnings"`
	Rating              float64         `json:"rating"`
	WeeklyEarnings      []DayEarnings   `json:"weekly_earnings"`
	WeeklyDeliveries    []DayDeliveries `json:"weekly_deliveries"`
}
