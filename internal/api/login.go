package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/service/auth_service"
	"github.com/tcp_snm/pulse/middleware"
)

func (a *Api) HandlerLogin(w http.ResponseWriter, r *http.Request) {
	// extract user details for login
	var request auth_service.UserLoginRequest

	// decode from the json body
	err := decodeJsonBody(r.Body, &request)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// validate the user and gen a jwt token
	response, err := a.AuthServiceConfig.Login(r.Context(), request)
	if err != nil {
		handlerError(err, w)
		return
	}

	// set jwt session cookie
	cookie := &http.Cookie{
		Name:     middleware.KeyJwtSessionCookieName,
		Value:    response.Token,
		Expires:  response.ExpiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	log.WithField("user_name", response.UserName).Info("logged in")

	marshalAndRespond(w, http.StatusOK, response)
}
