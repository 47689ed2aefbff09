package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/emersonlsg10/flask/auth"
	"github.com/emersonlsg10/flask/domain"
	"github.com/emersonlsg10/flask/errs"
)

// registerLoveRoutes is a helper for registering all Love routes.
func (s *Server) registerLoveRoutes(r *mux.Router) {
	// Love a post.
	r.HandleFunc("/{id:[0-9]+}/love", s.requireAuth(s.handleCreateLove)).Methods("POST")

	// Unlove a previously loved post.
	r.HandleFunc("/{id:[0-9]+}/deslove", s.requireAuth(s.handleDeleteLove)).Methods("POST")
}

// handleCreateLove handles the route "POST /{id}/love".
// It inserts a love record for the signed-in user unconditionally: neither
// the post's existence nor an already existing love is checked, so repeated
// loving accumulates rows.
func (s *Server) handleCreateLove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	love := domain.Love{
		PostID:   id,
		AuthorID: user.ID,
	}
	if err := s.ls.Create(&love); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDeleteLove handles the route "POST /{id}/deslove".
// The post is resolved through the author-checking resolver, so only the
// post's author can unlove here; everyone else gets a 403. That quirk is
// kept on purpose to match the original behavior.
func (s *Server) handleDeleteLove(w http.ResponseWriter, r *http.Request) {
	post, err := s.findPost(r, true)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.ls.DeleteForPost(post.ID, user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
