package endpoint

import (
	"net/http"
	"time"

	"github.com/ariebrainware/clinic-care/middleware"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouteOptions tunes RegisterRoutes.
type RouteOptions struct {
	CORSOrigins []string
	AuthLimit   middleware.RateLimitConfig
}

// RegisterRoutes mounts the middleware chain and every API route on r.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, opts RouteOptions) {
	r.Use(
		middleware.RequestID(),
		middleware.CORSMiddleware(opts.CORSOrigins),
		middleware.DatabaseMiddleware(db),
		middleware.ActorContext(),
		middleware.EndpointCallLogger(),
	)

	r.GET("/health", Health)

	api := r.Group("/api")

	auth := api.Group("/auth", middleware.RateLimiter(opts.AuthLimit))
	auth.POST("/signup", Signup)
	auth.POST("/login", Login)
	auth.GET("/check-email", CheckEmail)

	appointments := api.Group("/appointments")
	appointments.GET("", ListAppointments)
	appointments.POST("", ScheduleAppointment)
	appointments.GET("/:id", GetAppointment)
	appointments.PUT("/:id", UpdateAppointment)
	appointments.PATCH("/:id", UpdateAppointment)
	appointments.DELETE("/:id", DeleteAppointment)

	doctors := api.Group("/doctors/:doctorId")
	doctors.GET("/appointments", ListDoctorAppointments)
	doctors.GET("/schedule", GetDoctorSchedule)
	doctors.GET("/prescriptions", ListDoctorPrescriptions)

	patients := api.Group("/patients/:patientId")
	patients.GET("/appointments", ListPatientAppointments)
	patients.GET("/diet-plans", ListPatientDietPlans)
	patients.GET("/prescriptions", ListPatientPrescriptions)
	patients.POST("/assign-dietitian", AssignDietitian)

	api.GET("/dietitians", ListDietitians)
	api.GET("/dietitians/:dietitianId/patients", ListDietitianPatients)
	api.GET("/dietitians/:dietitianId/diet-plans", ListDietitianDietPlans)

	dietPlans := api.Group("/diet-plans")
	dietPlans.POST("", CreateDietPlan)
	dietPlans.GET("/:id", GetDietPlan)
	dietPlans.PUT("/:id", UpdateDietPlan)
	dietPlans.DELETE("/:id", DeleteDietPlan)

	prescriptions := api.Group("/prescriptions")
	prescriptions.GET("", ListPrescriptions)
	prescriptions.POST("", CreatePrescription)
	prescriptions.GET("/:id", GetPrescription)
	prescriptions.PUT("/:id", UpdatePrescription)
	prescriptions.PATCH("/:id", UpdatePrescription)
	prescriptions.DELETE("/:id", DeletePrescription)

	api.GET("/reports/patients-with-prescriptions", PatientsWithPrescriptions)

	health := api.Group("/health-data")
	health.GET("", ListHealthData)
	health.POST("", CreateHealthData)
	health.GET("/:id", GetHealthData)
	health.PUT("/:id", UpdateHealthData)
	health.DELETE("/:id", DeleteHealthData)

	users := api.Group("/users")
	users.GET("", ListUsers)
	users.POST("", CreateUser)
	users.GET("/:id", GetUser)
	users.PUT("/:id", UpdateUser)
	users.DELETE("/:id", DeleteUser)
	users.PATCH("/:id/status", UpdateUserStatus)
	users.PATCH("/:id/role", UpdateUserRole)
	users.GET("/:id/health-data", ListUserHealthData)

	api.GET("/audit-logs", ListAuditLogs)
}

// Health reports liveness and whether the database answers.
func Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if db, ok := middleware.GetDB(c); ok {
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	hits, misses, size := util.GetGeoIPCacheMetrics()
	c.JSON(code, util.APIResponse{
		Success: code == http.StatusOK,
		Msg:     status,
		Data: map[string]interface{}{
			"time":             time.Now().UTC().Format(time.RFC3339),
			"geoip_cache_hits": hits,
			"geoip_cache_miss": misses,
			"geoip_cache_size": size,
		},
	})
}
