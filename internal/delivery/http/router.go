package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventportals/internal/delivery/http/controllers"
	"eventportals/internal/delivery/http/middleware"
	"eventportals/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	vendorController *controllers.VendorController,
	adminController *controllers.AdminController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	organizer := middleware.RequireRole(domain.RoleOrganizer)
	vendor := middleware.RequireRole(domain.RoleVendor)
	admin := middleware.RequireRole(domain.RoleAdmin)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/login-code/request", authController.RequestLoginCode)
	mux.HandleFunc("POST /auth/login-code/verify", authController.VerifyLoginCode)

	// Profile
	mux.HandleFunc("GET /users/me", auth(userController.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(userController.UpdateMe))

	// Organizer portal
	mux.HandleFunc("POST /organizer/events", auth(organizer(eventController.CreateEvent)))
	mux.HandleFunc("GET /organizer/events", auth(organizer(eventController.ListMyEvents)))
	mux.HandleFunc("GET /organizer/events/{eventID}", auth(organizer(eventController.GetEvent)))
	mux.HandleFunc("PATCH /organizer/events/{eventID}", auth(organizer(eventController.UpdateEvent)))
	mux.HandleFunc("DELETE /organizer/events/{eventID}", auth(organizer(eventController.DeleteEvent)))
	mux.HandleFunc("GET /organizer/events/{eventID}/attendees", auth(organizer(eventController.ListAttendees)))
	mux.HandleFunc("POST /organizer/check-in", auth(organizer(registrationController.CheckIn)))

	// Attendee registrations
	mux.HandleFunc("POST /events/{eventID}/register", auth(registrationController.Register))
	mux.HandleFunc("POST /events/{eventID}/cancel", auth(registrationController.Cancel))
	mux.HandleFunc("GET /events/{eventID}/waitlist-position", auth(registrationController.WaitlistPosition))
	mux.HandleFunc("GET /events/{eventID}/ticket", auth(registrationController.GetTicket))
	mux.HandleFunc("POST /registrations/by-code", auth(registrationController.RegisterByCode))
	mux.HandleFunc("GET /registrations/me", auth(registrationController.ListMine))

	// Vendor portal
	mux.HandleFunc("POST /vendor/events/{eventID}/booth", auth(vendor(vendorController.ClaimBooth)))
	mux.HandleFunc("GET /vendor/events/{eventID}/booth", auth(vendor(vendorController.MyBooth)))
	mux.HandleFunc("POST /vendor/booths/{boothID}/products", auth(vendor(vendorController.AddProduct)))
	mux.HandleFunc("GET /vendor/booths/{boothID}/products", auth(vendor(vendorController.ListProducts)))
	mux.HandleFunc("POST /vendor/booths/{boothID}/sales", auth(vendor(vendorController.RecordSale)))
	mux.HandleFunc("GET /vendor/booths/{boothID}/sales", auth(vendor(vendorController.ListSales)))
	mux.HandleFunc("GET /vendor/booths/{boothID}/summary", auth(vendor(vendorController.SalesSummary)))

	// Admin portal
	mux.HandleFunc("GET /admin/events", auth(admin(adminController.ListAllEvents)))
	mux.HandleFunc("GET /admin/events/{eventID}/stats", auth(admin(adminController.EventStats)))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
