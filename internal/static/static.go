package static

import (
	"html"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

const page = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>__TITLE__</title>
    <style media="screen">
      body { background: #f1f3f4; color: #3c4043; font-family: Roboto, Helvetica, Arial, sans-serif; margin: 0; }
      main { background: white; max-width: 380px; margin: 96px auto; padding: 24px 28px; border-radius: 8px; border: 1px solid #dadce0; }
      h1 { font-size: 22px; margin: 0 0 12px; }
      h2 { font-size: 16px; font-weight: 400; margin: 0 0 12px; color: __COLOR__; }
      p { font-size: 14px; line-height: 140%; }
    </style>
  </head>
  <body>
    <main>
      <h1>__TITLE__</h1>
      <h2>__HEADING__</h2>
      <p>__BODY__</p>
    </main>
  </body>
</html>`

func render(title, color, heading, body string) string {
	r := strings.NewReplacer(
		"__TITLE__", html.EscapeString(title),
		"__COLOR__", color,
		"__HEADING__", html.EscapeString(heading),
		"__BODY__", html.EscapeString(body),
	)
	return r.Replace(page)
}

// SuccessHTML is served on the loopback redirect once Google returned a code.
func SuccessHTML(title string) string {
	return render(title, "#188038", "Google sign-in complete", "You can close this tab and return to "+title+".")
}

// FailedHTML is served when the redirect carried an error or a bad state.
func FailedHTML(title string) string {
	return render(title, "#d93025", "Google sign-in failed", "Something went wrong. Return to "+title+" and try again.")
}

// Open attempts an os specific opening of transferred files or urls
func Open(uri string) error {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", uri).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", uri).Start()
	case "darwin":
		err = exec.Command("open", uri).Start()
	default:
		err = errors.New("unsupported platform, cannot open browser")
	}

	return err
}

func IsDesktop() bool {
	switch runtime.GOOS {
	case "linux", "windows", "darwin":
		return true
	}

	return false
}
