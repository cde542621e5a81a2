package httpapi

import (
	"net/http"
	"time"

	"smartlighting-backend-go/internal/config"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	QRTokens   *services.QRTokenStore
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.JWTIssuer,
		AccessTTL: time.Duration(cfg.AccessTTLSeconds) * time.Second,
	}
	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		QRTokens:   services.NewQRTokenStore(time.Duration(cfg.QRTokenTTLMinutes) * time.Minute),
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	auth := WithAuth(s.Tokens, s.DB)

	r.Route("/admin", func(admin chi.Router) {
		admin.Post("/register", s.Register)
		admin.Post("/login", s.Login)

		admin.Group(func(private chi.Router) {
			private.Use(auth)
			private.Get("/list", s.ListAdmins)
			private.Get("/me", s.Me)
			private.Put("/edit", s.EditSelf)
			private.With(RequireFullAccess).Put("/update_status/{adminEmail}", s.UpdateAdminStatus)
			private.With(RequireFullAccess).Delete("/delete/{adminID}", s.DeleteAdmin)

			private.Post("/export", s.ExportJSON)
			private.Post("/export/excel", s.ExportExcel)
			private.Post("/backup", s.Backup)
			private.With(RequireFullAccess).Post("/import", s.Import)

			private.Get("/metrics/history", s.MetricsHistory)
		})
	})

	r.Route("/lantern", func(e chi.Router) {
		e.Use(auth)
		e.Post("/add", s.AddLantern)
		e.Get("/list", s.ListLanterns)
		e.Get("/info/{lanternID}", s.LanternInfo)
		e.Put("/update/{lanternID}", s.UpdateLantern)
		e.Delete("/delete/{lanternID}", s.DeleteLantern)
	})

	r.Route("/park", func(e chi.Router) {
		e.Use(auth)
		e.Post("/add", s.AddPark)
		e.Get("/list", s.ListParks)
		e.Get("/info/{parkID}", s.ParkInfo)
		e.Put("/update/{parkID}", s.UpdatePark)
		e.Delete("/delete/{parkID}", s.DeletePark)
	})

	r.Route("/breakdown", func(e chi.Router) {
		e.Use(auth)
		e.Post("/add", s.AddBreakdown)
		e.Get("/list", s.ListBreakdowns)
		e.Get("/info/{breakdownID}", s.BreakdownInfo)
		e.Put("/update/{breakdownID}", s.UpdateBreakdown)
		e.Delete("/delete/{breakdownID}", s.DeleteBreakdown)
	})

	r.Route("/renovation", func(e chi.Router) {
		e.Use(auth)
		e.Post("/add", s.AddRenovation)
		e.Get("/list", s.ListRenovations)
		e.Get("/info/{renovationID}", s.RenovationInfo)
		e.Put("/update/{renovationID}", s.UpdateRenovation)
		e.Delete("/delete/{renovationID}", s.DeleteRenovation)
	})

	r.Route("/repairman", func(e chi.Router) {
		e.Use(auth)
		e.Post("/add", s.AddRepairman)
		e.Get("/list", s.ListRepairmen)
		e.Get("/info/{repairmanID}", s.RepairmanInfo)
		e.Put("/update/{repairmanID}", s.UpdateRepairman)
		e.Delete("/delete/{repairmanID}", s.DeleteRepairman)
	})

	r.Route("/company", func(e chi.Router) {
		e.Use(auth)
		e.Post("/add", s.AddCompany)
		e.Get("/list", s.ListCompanies)
		e.Get("/info/{companyID}", s.CompanyInfo)
		e.Put("/update/{companyID}", s.UpdateCompany)
		e.Delete("/delete/{companyID}", s.DeleteCompany)
	})

	r.Route("/updates", func(u chi.Router) {
		u.Use(auth)
		u.Get("/", s.ListUpdates)
		u.Get("/{updateID}", s.UpdateInfo)
		u.With(RequireFullAccess).Post("/", s.AddUpdate)
		u.With(RequireFullAccess).Put("/{updateID}", s.EditUpdate)
		u.With(RequireFullAccess).Delete("/{updateID}", s.DeleteUpdate)
	})

	r.Route("/activities", func(a chi.Router) {
		a.Use(auth)
		a.Get("/", s.ListActivities)
		a.Get("/recent", s.RecentActivities)
	})

	r.With(auth).Post("/statistics", s.Statistics)

	r.Route("/iot", func(iot chi.Router) {
		iot.Get("/lanterns/{lanternID}/settings", s.IotSettings)
		iot.Post("/lanterns/{lanternID}/motion", s.IotMotion)
		iot.Post("/lanterns/{lanternID}/fault", s.IotFault)
		iot.Post("/lanterns/{lanternID}/reboot", s.IotReboot)
		iot.Get("/lanterns/{lanternID}/status", s.IotStatus)
	})

	r.Route("/mobile", func(m chi.Router) {
		m.Get("/health", s.MobileHealth)
		m.Get("/lanterns/status", s.MobileLanternsStatus)
		m.Get("/lanterns/{lanternID}/status", s.MobileLanternStatus)
		m.Post("/lanterns/control", s.MobileControl)
		m.Get("/notifications/breakdowns", s.MobileBreakdownNotifications)
		m.Get("/history/breakdowns", s.MobileBreakdownHistory)
		m.Post("/auth/generate-qr", s.MobileGenerateQR)
		m.Post("/auth/validate-qr", s.MobileValidateQR)
		m.Post("/messages/report", s.MobileReportMessage)
		m.Get("/messages", s.MobileMessages)
		m.Post("/notifications/register", s.MobileRegisterDevice)
	})

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
