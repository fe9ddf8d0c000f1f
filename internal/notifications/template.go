package notifications

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
)

var orderEmail = template.Must(template.New("order").Funcs(template.FuncMap{
	"money": displayMoney,
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`<!DOCTYPE html>
<html lang="es">
<body style="font-family: Arial, sans-serif; color: #222;">
<h2>Nuevo pedido B2B {{.OrderNumber}}</h2>
<p>
<strong>Cliente:</strong> {{.CustomerName}} &lt;{{.CustomerEmail}}&gt;<br>
<strong>ID cliente:</strong> {{.CustomerID}}<br>
<strong>Descuento:</strong> {{.DiscountPercent}}%<br>
<strong>Medio de pago:</strong> {{.PaymentMethod}}
{{- if .EvidenceURL}}<br><strong>Comprobante:</strong> <a href="{{.EvidenceURL}}">{{.EvidenceURL}}</a>{{end}}
</p>
<table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse;">
<thead>
<tr><th>Producto</th><th>Cantidad</th><th>Neto</th><th>IVA</th><th>Total</th></tr>
</thead>
<tbody>
{{- range .Lines}}
<tr><td>{{.Title}}</td><td>{{.Quantity}}</td><td>{{money .Discounted.Net}}</td><td>{{money .Discounted.Tax}}</td><td>{{money .Discounted.Gross}}</td></tr>
{{- end}}
</tbody>
</table>
<p>
<strong>Subtotal neto:</strong> {{money .Summary.DiscountedNet}}<br>
<strong>IVA:</strong> {{money .Summary.DiscountedTax}}<br>
<strong>Total:</strong> {{.Total}} {{.Currency}}<br>
<strong>Descuento aplicado:</strong> {{.Discount}} {{.Currency}}
</p>
{{- if .Note}}
<h3>Nota del pedido</h3>
<p>{{range lines .Note}}{{.}}<br>{{end}}</p>
{{- end}}
</body>
</html>
`))

func renderOrderEmail(summary OrderSummary) (string, error) {
	var buf bytes.Buffer
	if err := orderEmail.Execute(&buf, summary); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// displayMoney renders whole currency units with dot thousands separators.
func displayMoney(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}
