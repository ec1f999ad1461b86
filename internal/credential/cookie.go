package credential

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// secret signs the cookie; a key derived from it encrypts the value
func NewCookieKeys(secret string, secure bool) *CookieKeys {
	blockKey := sha256.Sum256([]byte("credential:" + secret))

	store := sessions.NewCookieStore([]byte(secret), blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &CookieKeys{store: store}
}

// returns the stored key or "" when there is none or the cookie is unreadable
func (k *CookieKeys) Get(r *http.Request) string {
	session, err := k.store.Get(r, cookieName)
	if err != nil {
		return ""
	}

	key, _ := session.Values[cookieKeyField].(string)

	return key
}

func (k *CookieKeys) Save(w http.ResponseWriter, r *http.Request, key string) error {
	// a stale or tampered cookie still yields a fresh session
	session, _ := k.store.Get(r, cookieName) //nolint:errcheck // new session on decode failure
	session.Values[cookieKeyField] = key

	return session.Save(r, w)
}

func (k *CookieKeys) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := k.store.Get(r, cookieName) //nolint:errcheck // new session on decode failure
	delete(session.Values, cookieKeyField)
	session.Options.MaxAge = -1

	return session.Save(r, w)
}
