package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/emersonlsg10/flask/domain"
	"github.com/emersonlsg10/flask/errs"
)

const githubProvider = "github"

func (s *Server) registerOAuthRoutes(r *mux.Router) {
	r.HandleFunc("/oauth/github", s.handleGithubLogin).Methods("GET")
	r.HandleFunc("/oauth/github/callback", s.handleGithubCallback).Methods("GET")
}

// handleGithubLogin handles the route "GET /oauth/github".
// It stores a random state value in a cookie and sends the client off to
// Github's authorization page.
func (s *Server) handleGithubLogin(w http.ResponseWriter, r *http.Request) {
	state, err := s.us.MakeRememberToken()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		HttpOnly: true,
	})
	http.Redirect(w, r, s.github.AuthCodeURL(state), http.StatusFound)
}

// githubUser is the part of Github's user response we care about.
type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// handleGithubCallback handles the route "GET /oauth/github/callback".
// It verifies the state value, exchanges the code for a token, fetches the
// Github account, and signs in the linked user - creating user and link on
// their first visit.
func (s *Server) handleGithubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != r.FormValue("state") {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid oauth state."))
		return
	}

	token, err := s.github.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Oauth code exchange failed."))
		return
	}

	// Ask Github who just authorized us.
	client := s.github.Client(r.Context(), token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer resp.Body.Close()
	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user, err := s.userForGithubAccount(&ghUser)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.signIn(w, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// userForGithubAccount resolves the local user linked to the given Github
// account, registering a fresh passwordless user on first sign-in.
func (s *Server) userForGithubAccount(ghUser *githubUser) (*domain.User, error) {
	providerUserID := strconv.FormatInt(ghUser.ID, 10)

	oauth, err := s.os.ByProviderUserID(githubProvider, providerUserID)
	if err == nil {
		return s.us.ByID(oauth.UserID)
	}
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		return nil, err
	}

	user := &domain.User{
		Username:         ghUser.Login,
		NoPasswordNeeded: true,
	}
	if err := s.us.Create(user); err != nil {
		return nil, err
	}
	if err := s.os.Create(&domain.OAuth{
		UserID:         user.ID,
		Provider:       githubProvider,
		ProviderUserID: providerUserID,
	}); err != nil {
		return nil, err
	}
	return user, nil
}
