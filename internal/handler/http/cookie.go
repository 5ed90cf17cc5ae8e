package http

import "net/http"

// Cart cookie contract: http-only, lax, site-wide, 30 days. The value is the
// opaque remote cart ID and nothing else.
const (
	cartCookieName   = "outsider_cart_id"
	cartCookieMaxAge = 30 * 24 * 60 * 60
)

func setCartCookie(w http.ResponseWriter, cartID string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    cartID,
		Path:     "/",
		MaxAge:   cartCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCartCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cartIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(cartCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
