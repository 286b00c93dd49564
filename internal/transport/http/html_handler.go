package http

import (
	"html/template"
	"net/http"
)

// uploadPageTemplate is the minimal inline upload UI. It posts the batch
// to the analyze endpoint and links the report list; anything richer
// belongs in a real frontend.
var uploadPageTemplate = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.AppName}}</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 3rem auto; padding: 0 1rem; }
fieldset { border: 1px solid #ccc; padding: 1rem; }
#result { margin-top: 1rem; white-space: pre-wrap; font-family: monospace; }
</style>
</head>
<body>
<h1>{{.AppName}}</h1>
<p>Upload shipping manifest spreadsheets to generate the container analysis report.</p>
<form id="analyze-form">
  <fieldset>
    <legend>Manifest files (.xlsx, .xls, .csv)</legend>
    <input type="file" name="files" multiple required>
    <button type="submit">Analyze</button>
  </fieldset>
</form>
<p><a href="/api/reports">Generated reports</a></p>
<div id="result"></div>
<script>
document.getElementById('analyze-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const result = document.getElementById('result');
  result.textContent = 'Analyzing…';
  const data = new FormData(e.target);
  try {
    const resp = await fetch('/api/analyze', { method: 'POST', body: data });
    const body = await resp.json();
    if (resp.ok && body.report && body.report.download_url) {
      result.textContent = JSON.stringify(body.summary, null, 2);
      window.location.assign(body.report.download_url);
    } else {
      result.textContent = JSON.stringify(body, null, 2);
    }
  } catch (err) {
    result.textContent = 'Request failed: ' + err;
  }
});
</script>
</body>
</html>
`))

// ServeUploadPage serves the inline upload page at the web root.
func ServeUploadPage(appName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		uploadPageTemplate.Execute(w, struct{ AppName string }{AppName: appName})
	}
}
