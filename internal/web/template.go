package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/sos-beacon/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	},
	"switch": status.SwitchString,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2">
<title>SOS Beacon</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
table { border-collapse: collapse; width: 100%; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.ACTIVE { color: #b80; font-weight: bold; }
</style>
</head>
<body>
<h1>SOS Beacon</h1>
<table>
<tr><th>State</th><td class="{{.State}}">{{.State}}{{if .Playing}} (playing){{end}}</td></tr>
<tr><th>SW1</th><td>{{switch .SW1}}</td></tr>
<tr><th>SW2</th><td>{{switch .SW2}}</td></tr>
<tr><th>Cycles</th><td>{{.Counts.Cycles}}</td></tr>
<tr><th>Starts / stops</th><td>{{.Counts.Starts}} / {{.Counts.Stops}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Trigger</th><td>{{.Config.Trigger}}</td></tr>
<tr><th>MQTT</th><td>{{if .MQTTConnected}}connected{{else}}disconnected{{end}} {{.Config.Broker}}</td></tr>
</table>
<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	return indexTmpl.Execute(w, snap)
}
