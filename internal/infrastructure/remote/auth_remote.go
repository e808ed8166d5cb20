package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/oksasatya/realio-auth/internal/domain/autherr"
)

// Endpoint paths relative to the base URL.
const (
	PathLogin       = "/v1/auth/login"
	PathRegister    = "/v1/auth/register"
	PathLogout      = "/v1/auth/logout"
	PathResendOtp   = "/v1/auth/resend-otp"
	PathVerify      = "/v1/auth/verify"
	PathOAuthLogin  = "/v1/auth/oauth/login"
	PathUser        = "/v1/auth/user/"
	PathUploadImage = "/v1/auth/upload-image"
)

// AuthRemote is the network boundary of the auth flow. Each call is a
// single attempt; every error is an *autherr.Error.
type AuthRemote interface {
	Login(ctx context.Context, req LoginRequest) (*AuthEnvelope, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthEnvelope, error)
	Logout(ctx context.Context, authorization string) (*LogoutResponse, error)
	ResendOtp(ctx context.Context, req ResendOtpRequest) (*OtpEnvelope, error)
	VerifyOtp(ctx context.Context, req VerifyOtpRequest) (*OtpEnvelope, error)
	OAuthLogin(ctx context.Context, req OAuthLoginRequest) (*AuthEnvelope, error)
	OAuthRegister(ctx context.Context, req OAuthRegisterRequest) (*AuthEnvelope, error)
	GetUser(ctx context.Context, userID, authorization string) (*AuthEnvelope, error)
	UploadImage(ctx context.Context, req UploadImageRequest) (*UploadResponse, error)
}

var _ AuthRemote = (*Client)(nil)

func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthEnvelope, error) {
	return decode[AuthEnvelope](c.postJSON(ctx, PathLogin, req, ""))
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthEnvelope, error) {
	return decode[AuthEnvelope](c.postJSON(ctx, PathRegister, req, ""))
}

func (c *Client) Logout(ctx context.Context, authorization string) (*LogoutResponse, error) {
	return decode[LogoutResponse](c.postJSON(ctx, PathLogout, struct{}{}, authorization))
}

func (c *Client) ResendOtp(ctx context.Context, req ResendOtpRequest) (*OtpEnvelope, error) {
	return decode[OtpEnvelope](c.postJSON(ctx, PathResendOtp, req, ""))
}

func (c *Client) VerifyOtp(ctx context.Context, req VerifyOtpRequest) (*OtpEnvelope, error) {
	return decode[OtpEnvelope](c.postJSON(ctx, PathVerify, req, ""))
}

func (c *Client) OAuthLogin(ctx context.Context, req OAuthLoginRequest) (*AuthEnvelope, error) {
	return decode[AuthEnvelope](c.postJSON(ctx, PathOAuthLogin, req, ""))
}

// OAuthRegister posts to the register endpoint; the provider field tells
// the backend it is an OAuth sign-up.
func (c *Client) OAuthRegister(ctx context.Context, req OAuthRegisterRequest) (*AuthEnvelope, error) {
	return decode[AuthEnvelope](c.postJSON(ctx, PathRegister, req, ""))
}

func (c *Client) GetUser(ctx context.Context, userID, authorization string) (*AuthEnvelope, error) {
	return decode[AuthEnvelope](c.get(ctx, PathUser+url.PathEscape(userID), authorization))
}

// MaxUploadBytes is the largest profile image the backend accepts.
const MaxUploadBytes = 5 << 20

const (
	msgUnreadableImage = "Image file could not be read"
	msgImageTooLarge   = "Image is larger than 5 MB"
)

// UploadImage streams the file at req.Path as the "content" part next to a
// "userId" field. Files over MaxUploadBytes are refused before any request
// is made.
func (c *Client) UploadImage(ctx context.Context, req UploadImageRequest) (*UploadResponse, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, autherr.StateWrap(msgUnreadableImage, err)
	}
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, autherr.StateWrap(msgUnreadableImage, err)
	}
	if info.Size() > MaxUploadBytes {
		_ = f.Close()
		return nil, autherr.State(msgImageTooLarge)
	}
	// the first 512 bytes decide the part's content type
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, autherr.StateWrap(msgUnreadableImage, err)
	}
	head = head[:n]

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer f.Close()
		rest := io.LimitReader(f, MaxUploadBytes-int64(n))
		_ = pw.CloseWithError(writeUpload(mw, req, head, rest))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(PathUploadImage), pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, autherr.Transport(err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	return decode[UploadResponse](c.send(httpReq, BearerToken(req.Authorization)))
}

func writeUpload(mw *multipart.Writer, req UploadImageRequest, head []byte, rest io.Reader) error {
	if err := mw.WriteField("userId", req.UserID); err != nil {
		return err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="content"; filename=%q`, filepath.Base(req.Path)))
	h.Set("Content-Type", http.DetectContentType(head))
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, io.MultiReader(bytes.NewReader(head), rest)); err != nil {
		return err
	}
	return mw.Close()
}

// BearerToken prefixes "Bearer " unless the value already carries it.
func BearerToken(token string) string {
	if token == "" || strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}
