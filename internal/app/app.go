package app

import (
	"accounts/internal/app/deps"
	"accounts/internal/app/services"
	"accounts/internal/http/handlers/auth"
	loginwithemail "accounts/internal/http/handlers/auth/log_in_with_email"
	resetpassword "accounts/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "accounts/internal/http/handlers/auth/send_password_reset_token"
	signupwithemail "accounts/internal/http/handlers/auth/sign_up_with_email"
	getuser "accounts/internal/http/handlers/user/get_user"
	listusers "accounts/internal/http/handlers/user/list_users"
	"fmt"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler:           NewRouter(s, deps.Config.IsTestMode, deps.Config.AllowedOrigins),
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(s *services.Services, isTestMode bool, allowedOrigins []string) http.Handler {
	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/signup", signupwithemail.New(s.SignUpWithEmail))
	authRouter.Method(http.MethodPost, "/login", loginwithemail.New(s.LogInWithEmail))
	authRouter.Method(
		http.MethodPost,
		"/password/forgot",
		sendpasswordresettoken.New(s.SendPasswordResetToken, isTestMode),
	)
	authRouter.Method(http.MethodPost, "/password/reset", resetpassword.New(s.ResetPassword))

	usersRouter := chi.NewRouter()
	usersRouter.Use(auth.SetAuthTokenToContext)
	usersRouter.Method(http.MethodGet, "/", listusers.New(s.ListUsers))
	usersRouter.Method(http.MethodGet, "/{"+getuser.URL_PARAM+"}", getuser.New(s.GetUser))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{sendpasswordresettoken.TEST_TOKEN_HEADER},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/users", usersRouter)

	return router
}
