package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/emersonlsg10/flask/auth"
	"github.com/emersonlsg10/flask/domain"
	"github.com/emersonlsg10/flask/errs"
)

// registerPostRoutes is a helper for registering all Post routes.
func (s *Server) registerPostRoutes(r *mux.Router) {
	// Show all posts, most recent first. Open to everyone.
	r.HandleFunc("/", s.handleIndex).Methods("GET")

	// Create a new post.
	r.HandleFunc("/create", s.requireAuth(s.handleCreatePost)).Methods("GET", "POST")

	// Update an existing post's title and body (author only).
	r.HandleFunc("/{id:[0-9]+}/update", s.requireAuth(s.handleUpdatePost)).Methods("GET", "POST")

	// Show a post with its comments (author only).
	r.HandleFunc("/{id:[0-9]+}/details", s.requireAuth(s.handlePostDetails)).Methods("GET")

	// Delete an existing post (author only).
	r.HandleFunc("/{id:[0-9]+}/delete", s.requireAuth(s.handleDeletePost)).Methods("POST")
}

// handleIndex handles the route "GET /".
// It returns the full post listing: every post with its author's username
// and love count, newest first.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	feed, err := s.ps.Feed()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(feed); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreatePost handles the route "GET,POST /create".
// A GET renders an empty form payload. A POST validates the submitted title
// and, on success, inserts a post owned by the signed-in user and redirects
// to the listing. A failed validation performs no insert.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		json.NewEncoder(w).Encode(&domain.Post{})
		return
	}

	user := auth.GetUser(r.Context())
	post := domain.Post{
		Title:    r.PostFormValue("title"),
		Body:     r.PostFormValue("body"),
		AuthorID: user.ID,
	}

	if err := s.ps.Create(&post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleUpdatePost handles the route "GET,POST /{id}/update".
// The post is resolved with the author check on for both methods, so a
// missing post yields 404 and a non-author 403 before anything else happens.
// A GET renders the current post, a POST validates the title and writes only
// title and body.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.findPost(r, true)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if r.Method == http.MethodGet {
		json.NewEncoder(w).Encode(post)
		return
	}

	post.Title = r.PostFormValue("title")
	post.Body = r.PostFormValue("body")
	if err := s.ps.Update(post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handlePostDetails handles the route "GET /{id}/details".
// It returns the post together with its comments, newest first. Only the
// post's author may view the details page.
func (s *Server) handlePostDetails(w http.ResponseWriter, r *http.Request) {
	post, err := s.findPost(r, true)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	comments, err := s.cs.ByPostID(post.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	details := struct {
		Post     *domain.Post         `json:"post"`
		Comments []domain.CommentInfo `json:"comments"`
	}{
		Post:     post,
		Comments: comments,
	}
	if err := json.NewEncoder(w).Encode(&details); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeletePost handles the route "POST /{id}/delete".
// It resolves the post with the author check on, deletes it along with its
// loves and comments, and redirects to the listing.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.findPost(r, true)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.ps.Delete(post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// findPost resolves the post addressed by the route's {id} parameter.
// It fails with ENOTFOUND if no such post exists. With checkAuthor set, it
// additionally fails with EUNAUTHORIZED if the signed-in user is not the
// post's author. Every author-scoped operation goes through here before
// mutating anything.
func (s *Server) findPost(r *http.Request, checkAuthor bool) (*domain.Post, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		return nil, err
	}

	if checkAuthor {
		user := auth.GetUser(r.Context())
		if user == nil || post.AuthorID != user.ID {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "You are not the author of this post.")
		}
	}
	return post, nil
}
