package routes

import (
	"parkhub/auth"
	"parkhub/drivers"
	"parkhub/hardware"
	"parkhub/middleware"
	"parkhub/pay"
	"parkhub/ratelim"
	"parkhub/reports"
	"parkhub/reservations"
	"parkhub/slots"
	"parkhub/vehicles"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
}

func AddSlotRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/slots", rl.Limit(middleware.Authenticate(slots.CreateSlot)))
	router.GET("/api/slots", rl.Limit(slots.ListSlots))
	router.GET("/api/slots-summary", rl.Limit(slots.Summary))
	router.GET("/api/slots/:id", rl.Limit(slots.GetSlot))
	router.PUT("/api/slots/:id", rl.Limit(middleware.Authenticate(slots.UpdateSlot)))
	router.DELETE("/api/slots/:id", rl.Limit(middleware.Authenticate(slots.DeleteSlot)))

	router.POST("/api/slots/:id/checkin", rl.Limit(middleware.Authenticate(slots.CheckIn)))
	router.POST("/api/slots/:id/checkout", rl.Limit(middleware.Authenticate(slots.CheckOut)))
	router.POST("/api/slots/:id/maintenance/start", rl.Limit(middleware.Authenticate(slots.MaintenanceStart)))
	router.POST("/api/slots/:id/maintenance/end", rl.Limit(middleware.Authenticate(slots.MaintenanceEnd)))

	router.GET("/api/slots/:id/usage", rl.Limit(slots.UsageHistory))
	router.GET("/api/slots/:id/maintenance", rl.Limit(slots.MaintenanceHistory))

	router.GET("/ws/slots", slots.HandleWS)
}

func AddReportRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/reports/usage", rl.Limit(reports.Usage))
	router.GET("/api/reports/usage/pdf", rl.Limit(reports.UsagePDF))
	router.GET("/api/reports/maintenance", rl.Limit(reports.Maintenance))
}

func AddDriverRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/drivers", rl.Limit(drivers.CreateDriver))
	router.GET("/api/drivers", rl.Limit(middleware.Authenticate(drivers.ListDrivers)))
	router.GET("/api/drivers/:id", rl.Limit(middleware.Authenticate(drivers.GetDriver)))
	router.PUT("/api/drivers/:id", rl.Limit(middleware.Authenticate(drivers.UpdateDriver)))
	router.DELETE("/api/drivers/:id", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", drivers.DeleteDriver))))
}

func AddVehicleRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/vehicles", rl.Limit(middleware.OptionalAuth(vehicles.Register)))
	router.GET("/api/vehicles", rl.Limit(vehicles.List))
	router.GET("/api/vehicles/:id", rl.Limit(vehicles.Get))
	router.PUT("/api/vehicles/:id", rl.Limit(middleware.Authenticate(vehicles.Update)))
	router.POST("/api/vehicles/:id/exit", rl.Limit(vehicles.Exit))
	router.DELETE("/api/vehicles/:id", rl.Limit(middleware.Authenticate(vehicles.Delete)))
}

func AddReservationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/reservations", rl.Limit(middleware.Authenticate(reservations.Create)))
	router.GET("/api/reservations", rl.Limit(middleware.Authenticate(reservations.List)))
	router.GET("/api/drivers/:id/reservations", rl.Limit(middleware.Authenticate(reservations.ListByDriver)))
	router.PUT("/api/reservations/:id", rl.Limit(middleware.Authenticate(reservations.Update)))
	router.DELETE("/api/reservations/:id", rl.Limit(middleware.Authenticate(reservations.Delete)))

	router.GET("/api/reservations/:id/pass", rl.Limit(reservations.Pass))
	router.POST("/api/reservations/verify-pass", rl.Limit(reservations.VerifyPass))
}

func AddPayRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/payments", rl.Limit(middleware.Authenticate(pay.ListPayments)))
	router.POST("/api/payments", rl.Limit(middleware.Authenticate(pay.AddPayment)))
	router.POST("/api/payments/calculate", rl.Limit(pay.CalculatePayment))
	router.GET("/api/payments/:id", rl.Limit(middleware.Authenticate(pay.GetPayment)))
	router.DELETE("/api/payments/:id", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", pay.DeletePayment))))

	router.GET("/api/rates", rl.Limit(pay.ListRates))
	router.POST("/api/rates", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", pay.AddRate))))
	router.PUT("/api/rates/:id", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", pay.UpdateRate))))
	router.DELETE("/api/rates/:id", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", pay.DeleteRate))))

	router.GET("/api/refunds", rl.Limit(middleware.Authenticate(pay.ListRefunds)))
	router.POST("/api/refunds", rl.Limit(middleware.Authenticate(pay.AddRefund)))
	router.GET("/api/refunds/:id", rl.Limit(middleware.Authenticate(pay.GetRefund)))
	router.DELETE("/api/refunds/:id", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", pay.DeleteRefund))))

	router.GET("/api/extracharges", rl.Limit(pay.ListExtraCharges))
	router.POST("/api/extracharges", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", pay.AddExtraCharge))))
	router.PUT("/api/extracharges/:id", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", pay.UpdateExtraCharge))))
	router.DELETE("/api/extracharges/:id", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", pay.DeleteExtraCharge))))
}

func AddHardwareRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/hardware", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", hardware.Register))))
	router.GET("/api/hardware", rl.Limit(middleware.Authenticate(hardware.List)))
	router.GET("/api/hardware/:id", rl.Limit(middleware.Authenticate(hardware.Get)))
	router.PUT("/api/hardware/:id", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", hardware.Update))))
	router.DELETE("/api/hardware/:id", rl.Limit(middleware.Authenticate(middleware.RequireRole("admin", hardware.Delete))))
}
