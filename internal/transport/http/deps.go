package http

import (
	"github.com/Happy-Franck/Eventio-sub001/internal/application/emailauth"
	jwtinfra "github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/jwt"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/kv"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/smtp"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router. The router
// assembles the application services from them.
type Deps struct {
	UserRepo    emailauth.UserRepository
	Cache       kv.Store
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender      // optional
	JWTProvider *jwtinfra.Provider // optional — authenticated routes 503 without it
}
