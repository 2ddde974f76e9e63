package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vliz-backend/internal/chat"
	"vliz-backend/internal/logstore"
	"vliz-backend/internal/middleware"
	"vliz-backend/internal/model"
	"vliz-backend/internal/session"
	"vliz-backend/internal/state"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newMessagesApp(t *testing.T, records ...string) (*fiber.App, *logstore.MemoryStore) {
	t.Helper()

	store := logstore.NewMemoryStore(records...)
	echo := chat.NewContentEchoSet(state.NewClientState(state.NewMemoryKV()))
	h := NewMessageHandler(store, chat.NewPipeline(store, echo))
	codec := session.NewCodec(testSecret)

	app := fiber.New(fiber.Config{BodyLimit: 15 * 1024 * 1024})
	grp := app.Group("/messages", middleware.OptionalAuth(codec))
	grp.Get("/", h.Get)
	grp.Post("/send", h.Send)
	grp.Post("/file", h.SendFile)
	grp.Post("/delete", middleware.Auth(codec), h.Delete)
	return app, store
}

func jsonReq(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(t *testing.T, userID, username string) string {
	t.Helper()
	token, err := session.NewCodec(testSecret).Encode(model.Session{UserID: userID, Username: username})
	require.NoError(t, err)
	return session.CookieName + "=" + token
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestMessages_GetClassifiesChannels(t *testing.T) {
	app, _ := newMessagesApp(t, "a", "[PUBLIC]b", "!mantenimiento on", "c")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/messages/", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Support []model.ClassifiedMessage `json:"support"`
		Public  []model.ClassifiedMessage `json:"public"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Support, 2)
	require.Len(t, body.Public, 1)
	require.Equal(t, "b", body.Public[0].Body)
}

func TestMessages_SendAnonymous(t *testing.T) {
	app, store := newMessagesApp(t)

	resp, err := app.Test(jsonReq(t, http.MethodPost, "/messages/send", model.SendRequest{Msg: "hello"}))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	records, _ := store.GetAll(context.Background())
	require.Equal(t, []string{"hello"}, records)
}

func TestMessages_SendAttributed(t *testing.T) {
	app, store := newMessagesApp(t)

	req := jsonReq(t, http.MethodPost, "/messages/send", model.SendRequest{Msg: "hi", Channel: "public"})
	req.Header.Set("Cookie", sessionCookie(t, "42", "ana"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	records, _ := store.GetAll(context.Background())
	require.Len(t, records, 1)
	require.True(t, strings.HasPrefix(records[0], "[PUBLIC][USER:"))
}

func TestMessages_SendValidation(t *testing.T) {
	app, _ := newMessagesApp(t)

	tests := []struct {
		name string
		msg  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"too long", strings.Repeat("x", chat.MaxMessageChars+1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(jsonReq(t, http.MethodPost, "/messages/send", model.SendRequest{Msg: tc.msg}))
			require.NoError(t, err)
			require.Equal(t, 400, resp.StatusCode)
		})
	}
}

func TestMessages_SendFileTooLarge(t *testing.T) {
	app, store := newMessagesApp(t)

	payload := strings.Repeat("A", base64.StdEncoding.EncodedLen(chat.MaxFileBytes+1))
	req := jsonReq(t, http.MethodPost, "/messages/file", model.SendFileRequest{
		Filename: "big.bin",
		DataURL:  "data:application/octet-stream;base64," + payload,
	})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 413, resp.StatusCode)

	records, _ := store.GetAll(context.Background())
	require.Empty(t, records)
}

func TestMessages_DeleteRequiresSession(t *testing.T) {
	app, _ := newMessagesApp(t, "a")

	resp, err := app.Test(jsonReq(t, http.MethodPost, "/messages/delete", model.DeleteRequest{Index: 0}))
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)
}

func TestMessages_Delete(t *testing.T) {
	app, store := newMessagesApp(t, "a", "[PUBLIC]b", "c")

	req := jsonReq(t, http.MethodPost, "/messages/delete", model.DeleteRequest{Index: 1, ChatType: "support"})
	req.Header.Set("Cookie", sessionCookie(t, "42", "ana"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	records, _ := store.GetAll(context.Background())
	require.Equal(t, []string{"a", "[PUBLIC]b"}, records)
}

func TestMessages_DeleteStaleView(t *testing.T) {
	app, _ := newMessagesApp(t, "a")

	req := jsonReq(t, http.MethodPost, "/messages/delete", model.DeleteRequest{Index: 9, ChatType: "support"})
	req.Header.Set("Cookie", sessionCookie(t, "42", "ana"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 404, resp.StatusCode)
}
