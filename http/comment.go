package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/emersonlsg10/flask/auth"
	"github.com/emersonlsg10/flask/domain"
	"github.com/emersonlsg10/flask/errs"
)

// registerCommentRoutes is a helper for registering all Comment routes.
func (s *Server) registerCommentRoutes(r *mux.Router) {
	// Attach a comment to a post.
	r.HandleFunc("/{id:[0-9]+}/comment", s.requireAuth(s.handleCreateComment)).Methods("POST")

	// Delete a comment. The {id} here is the COMMENT id, not the post id.
	r.HandleFunc("/{id:[0-9]+}/descomment", s.requireAuth(s.handleDeleteComment)).Methods("POST")
}

// handleCreateComment handles the route "POST /{id}/comment".
// An empty comment_text is rejected with an inline error and no insert.
// Otherwise the comment is stored - without checking that the post exists -
// and the client is redirected to the post's details page.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	comment := domain.Comment{
		CommentText: r.PostFormValue("comment_text"),
		PostID:      id,
		AuthorID:    user.ID,
	}
	if err := s.cs.Create(&comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/%d/details", id), http.StatusSeeOther)
}

// handleDeleteComment handles the route "POST /{id}/descomment".
// The route parameter is bound to the comment id, matching the original
// behavior; the post_id field submitted by the form stays unused. Only the
// comment's own author matches the delete filter, so nothing happens for
// anyone else.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.cs.DeleteOwned(id, user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
