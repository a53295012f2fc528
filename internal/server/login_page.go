package server

import (
	"fmt"
	"net/http"

	"storefront/pkg/logging"
)

// closeDelayMillis is how long the completion page waits after the save
// request settles before closing itself, leaving the success message visible
// for a moment.
const closeDelayMillis = 1000

// loginSuccessPage is served inside the OAuth popup after the provider
// redirects back. Its script forwards token, customerId and state (the
// session id threaded through the login request) to the auth save endpoint
// with keepalive, waits for the request to settle, then closes the popup.
// Without a token it stays idle; the waiting caller times out on its own
// poll policy.
var loginSuccessPage = fmt.Sprintf(loginSuccessPageTemplate, closeDelayMillis)

const loginSuccessPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Login Successful</title>
<style>
  body { font-family: sans-serif; display: flex; align-items: center; justify-content: center; min-height: 90vh; text-align: center; }
  .badge { width: 4rem; height: 4rem; margin: 0 auto 1.5rem; border-radius: 9999px; background: #dcfce7; color: #16a34a; font-size: 2rem; line-height: 4rem; }
  p { color: #64748b; }
</style>
</head>
<body>
<main>
  <div class="badge">&#10003;</div>
  <h1>Login Successful!</h1>
  <p>You have been successfully authenticated. This window will close automatically.</p>
</main>
<script>
(function () {
  var CLOSE_DELAY_MS = %d;
  var params = new URLSearchParams(window.location.search);
  var token = params.get("token");
  var customerId = params.get("customerId");
  var sessionId = params.get("state"); // sessionId is threaded through the OAuth state parameter

  if (!token) {
    return;
  }

  var close = function () {
    setTimeout(function () { window.close(); }, CLOSE_DELAY_MS);
  };

  if (!sessionId) {
    close();
    return;
  }

  // keepalive lets the save request outlive the window if the user closes
  // it before the response arrives.
  fetch("/api/auth/save", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({ sessionId: sessionId, token: token, customerId: customerId }),
    keepalive: true
  }).catch(function (err) {
    console.error("Failed to save token:", err);
  }).finally(close);
})();
</script>
</body>
</html>
`

// handleLoginSuccess serves the login completion page.
func (s *Server) handleLoginSuccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	logging.Debug("AuthRelay", "Serving login completion page")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(loginSuccessPage)); err != nil {
		logging.Error("AuthRelay", err, "Failed to write login completion page")
	}
}
