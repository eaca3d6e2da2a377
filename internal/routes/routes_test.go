package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/internal/mailer"
	"github.com/stepweaver/mern-blog-server/internal/repository/memstore"
	"github.com/stepweaver/mern-blog-server/internal/services"
	"github.com/stepweaver/mern-blog-server/internal/utils"
)

type nopMailer struct{}

func (nopMailer) Send(context.Context, mailer.Message) error { return nil }

// copyUploader checks the temp file is still present while the service runs.
type copyUploader struct{ seen []byte }

func (u *copyUploader) Upload(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	u.seen = b
	return "https://img.example/photo.png", nil
}

type harness struct {
	t   *testing.T
	app *fiber.App
	up  *copyUploader
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := memstore.New()
	up := &copyUploader{}
	svc := Wire(Wiring{
		Stores:   services.Stores{Users: st, Posts: st, Comments: st, Categories: st, Messages: st},
		Mailer:   nopMailer{},
		Uploader: up,
		Filter:   utils.NewProfanityFilter(),
		Identity: services.IdentityConfig{JWTSecret: "test-secret", FrontendURL: "http://localhost:3000", MailFrom: "noreply@blog.test"},
	})
	app := NewApp(Config{JWTSecret: "test-secret", TempDir: t.TempDir(), MaxUploadBytes: 1 << 20}, svc)
	return &harness{t: t, app: app, up: up}
}

func (h *harness) do(method, path, token string, body any) (int, map[string]any) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			h.t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(req, token)
}

func (h *harness) send(req *http.Request, token string) (int, map[string]any) {
	h.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	if err != nil {
		h.t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			h.t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

// signup registers and logs in, returning the user id and bearer token.
func (h *harness) signup(first, email string) (string, string) {
	h.t.Helper()
	code, body := h.do("POST", "/api/users/register", "", map[string]string{
		"firstName": first, "lastName": "Tester", "email": email, "password": "secret123",
	})
	if code != fiber.StatusCreated {
		h.t.Fatalf("register %s: %d %v", email, code, body)
	}
	code, body = h.do("POST", "/api/users/login", "", map[string]string{"email": email, "password": "secret123"})
	if code != fiber.StatusOK {
		h.t.Fatalf("login %s: %d %v", email, code, body)
	}
	return body["_id"].(string), body["token"].(string)
}

func (h *harness) createPost(token, title string) (int, map[string]any) {
	h.t.Helper()
	return h.do("POST", "/api/posts", token, map[string]string{
		"title": title, "category": "general", "description": "words about " + title,
	})
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	resp, err := h.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil || resp.StatusCode != fiber.StatusOK {
		t.Fatalf("healthz: %v %v", resp, err)
	}
}

func TestLoginFailures(t *testing.T) {
	h := newHarness(t)
	h.signup("Ann", "ann@blog.test")

	code, body := h.do("POST", "/api/users/login", "", map[string]string{"email": "ann@blog.test", "password": "nope"})
	if code != fiber.StatusUnauthorized || body["error"] == "" {
		t.Fatalf("bad password: %d %v", code, body)
	}
	code, _ = h.do("POST", "/api/users/register", "", map[string]string{
		"firstName": "Ann", "lastName": "Again", "email": "ANN@blog.test", "password": "secret123",
	})
	if code != fiber.StatusConflict {
		t.Fatalf("duplicate register: %d", code)
	}
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t)
	code, body := h.createPost("", "hello")
	if code != fiber.StatusUnauthorized || body["error"] != "There is no token attached to the header" {
		t.Fatalf("anonymous create: %d %v", code, body)
	}
	code, _ = h.do("GET", "/api/posts/not-an-id", "", nil)
	if code != fiber.StatusBadRequest {
		t.Fatalf("bad id: %d", code)
	}
	code, _ = h.do("GET", "/api/posts", "bogus", nil)
	if code != fiber.StatusUnauthorized {
		t.Fatalf("bogus token: %d", code)
	}
}

func TestFollowScenario(t *testing.T) {
	h := newHarness(t)
	aID, aTok := h.signup("Ann", "ann@blog.test")
	bID, _ := h.signup("Bob", "bob@blog.test")

	if code, body := h.do("PUT", "/api/users/follow", aTok, map[string]string{"followId": bID}); code != fiber.StatusOK {
		t.Fatalf("follow: %d %v", code, body)
	}
	if code, _ := h.do("PUT", "/api/users/follow", aTok, map[string]string{"followId": bID}); code != fiber.StatusConflict {
		t.Fatalf("second follow: %d", code)
	}

	_, b := h.do("GET", "/api/users/"+bID, "", nil)
	followers, _ := b["followers"].([]any)
	if len(followers) != 1 || followers[0] != aID || b["accountType"] != "Noob" {
		t.Fatalf("bob after follow = %v", b)
	}

	for i := 0; i < 2; i++ {
		if code, _ := h.do("PUT", "/api/users/unfollow", aTok, map[string]string{"unFollowId": bID}); code != fiber.StatusOK {
			t.Fatalf("unfollow %d: %d", i, code)
		}
	}
	_, a := h.do("GET", "/api/users/"+aID, "", nil)
	if following, _ := a["following"].([]any); len(following) != 0 {
		t.Fatalf("ann still following %v", following)
	}
}

func TestLikeToggleScenario(t *testing.T) {
	h := newHarness(t)
	_, aTok := h.signup("Ann", "ann@blog.test")
	code, p := h.createPost(aTok, "first")
	if code != fiber.StatusCreated {
		t.Fatalf("create: %d %v", code, p)
	}
	postID := p["_id"].(string)

	_, liked := h.do("PUT", "/api/posts/likes", aTok, map[string]string{"postId": postID})
	if likes, _ := liked["likes"].([]any); len(likes) != 1 || liked["isLiked"] != true {
		t.Fatalf("after like = %v", liked)
	}
	_, disliked := h.do("PUT", "/api/posts/unlikes", aTok, map[string]string{"postId": postID})
	likes, _ := disliked["likes"].([]any)
	unLikes, _ := disliked["unLikes"].([]any)
	if len(likes) != 0 || len(unLikes) != 1 {
		t.Fatalf("after dislike = %v", disliked)
	}
	_, cleared := h.do("PUT", "/api/posts/unlikes", aTok, map[string]string{"postId": postID})
	if unLikes, _ := cleared["unLikes"].([]any); len(unLikes) != 0 || cleared["isUnLiked"] != false {
		t.Fatalf("after second dislike = %v", cleared)
	}
}

func TestQuotaAndProfanityOverHTTP(t *testing.T) {
	h := newHarness(t)
	_, tok := h.signup("Ann", "ann@blog.test")

	for _, title := range []string{"one", "two"} {
		if code, body := h.createPost(tok, title); code != fiber.StatusCreated {
			t.Fatalf("create %s: %d %v", title, code, body)
		}
	}
	if code, _ := h.createPost(tok, "three"); code != fiber.StatusForbidden {
		t.Fatalf("third post by Noob: %d", code)
	}

	_, tok2 := h.signup("Bob", "bob@blog.test")
	if code, _ := h.createPost(tok2, "shit happens"); code != fiber.StatusBadRequest {
		t.Fatalf("profane post: %d", code)
	}
	code, body := h.createPost(tok2, "clean")
	if code != fiber.StatusForbidden || body["error"] != "Denied! Bob Tester is blocked." {
		t.Fatalf("blocked author: %d %v", code, body)
	}
}

func TestPostPagesAndDetail(t *testing.T) {
	h := newHarness(t)
	_, tok := h.signup("Ann", "ann@blog.test")
	_, first := h.createPost(tok, "first")
	h.createPost(tok, "second")

	_, page := h.do("GET", "/api/posts/page?limit=1", "", nil)
	posts, _ := page["posts"].([]any)
	if len(posts) != 1 || page["has_more"] != true {
		t.Fatalf("first page = %v", page)
	}
	next := page["next_cursor"].(string)
	_, page = h.do("GET", "/api/posts/page?limit=1&cursor="+next, "", nil)
	if posts, _ = page["posts"].([]any); len(posts) != 1 || page["has_more"] != false {
		t.Fatalf("second page = %v", page)
	}
	if code, _ := h.do("GET", "/api/posts/page?cursor=notacursor", "", nil); code != fiber.StatusBadRequest {
		t.Fatalf("bad cursor: %d", code)
	}

	id := first["_id"].(string)
	_, d := h.do("GET", "/api/posts/"+id, "", nil)
	author, _ := d["author"].(map[string]any)
	if d["numViews"] != float64(1) || author["firstName"] != "Ann" {
		t.Fatalf("detail = %v", d)
	}
}

func TestProfilePhotoUpload(t *testing.T) {
	h := newHarness(t)
	_, tok := h.signup("Ann", "ann@blog.test")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="me.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("png-bytes"))
	w.Close()

	req := httptest.NewRequest("PUT", "/api/users/profile-photo-upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	code, body := h.send(req, tok)
	if code != fiber.StatusOK || body["profilePhoto"] != "https://img.example/photo.png" {
		t.Fatalf("upload: %d %v", code, body)
	}
	if string(h.up.seen) != "png-bytes" {
		t.Fatalf("uploader saw %q", h.up.seen)
	}

	req = httptest.NewRequest("PUT", "/api/users/profile-photo-upload", nil)
	if code, _ := h.send(req, tok); code != fiber.StatusBadRequest {
		t.Fatalf("missing image: %d", code)
	}
}

func TestAdminOnlyBlock(t *testing.T) {
	h := newHarness(t)
	_, tok := h.signup("Ann", "ann@blog.test")
	bID, _ := h.signup("Bob", "bob@blog.test")
	if code, _ := h.do("PUT", "/api/users/block-user/"+bID, tok, nil); code != fiber.StatusForbidden {
		t.Fatalf("non-admin block: %d", code)
	}
}
