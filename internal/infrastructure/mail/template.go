package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

var verificationHTML = template.Must(template.New("verificacion").Parse(`<!DOCTYPE html>
<html lang="es"><body style="font-family:Arial,sans-serif;color:#222">
<p>Hola {{.Nombre}},</p>
<p>Tu código de verificación para completar el alta en el Portal de Viviendas es:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">{{.Codigo}}</p>
<p>El código vence en {{.Minutos}} minutos. Si no solicitaste el alta, ignorá este correo.</p>
</body></html>`))

func renderVerification(nombre, codigo string, minutos int) (subject, text, html string) {
	subject = "Código de verificación - Portal de Viviendas"
	text = fmt.Sprintf("Hola %s,\n\nTu código de verificación es %s.\nVence en %d minutos.\n\nSi no solicitaste el alta, ignorá este correo.\n",
		nombre, codigo, minutos)

	var buf bytes.Buffer
	data := struct {
		Nombre, Codigo string
		Minutos        int
	}{nombre, codigo, minutos}
	if err := verificationHTML.Execute(&buf, data); err != nil {
		return subject, text, ""
	}
	return subject, text, buf.String()
}
