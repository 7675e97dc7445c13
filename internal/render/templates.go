package render

import (
	"html/template"
)

// Parsed once; html/template sets are safe for concurrent Execute.
var fragments = template.Must(template.New("fragments").Parse(fragmentTemplates))

const fragmentTemplates = `
{{define "document"}}<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<div class="invoice-document paper-{{.Paper}}" dir="{{.Dir}}" data-paper-size="{{.Paper}}" data-width-mm="{{.WidthMM}}"{{if .Preview}} data-preview="true"{{end}} style="{{.Style}}">
{{if .Preview}}<div class="preview-banner">{{.PreviewLabel}}</div>
{{end}}{{range .Sections}}<section class="section section-{{.Kind}}" data-section-id="{{.SectionID}}" data-section-type="{{.Kind}}">
{{.HTML}}</section>
{{end}}</div>
</body>
</html>
{{end}}

{{define "header"}}<header class="branch">
{{if .LogoURL}}<img class="logo" src="{{.LogoURL}}" alt="">
{{end}}<h1 class="legal-name">{{.Name}}</h1>
{{if .SecondaryName}}<div class="legal-name-secondary">{{.SecondaryName}}</div>
{{end}}{{if .VATNumber}}<div class="vat-number"><span class="label">{{.Labels.VATNumber}}</span> <span class="value">{{.VATNumber}}</span></div>
{{end}}{{if .CommercialReg}}<div class="cr-number"><span class="label">{{.Labels.CommercialReg}}</span> <span class="value">{{.CommercialReg}}</span></div>
{{end}}{{if .Address}}<div class="address">{{.Address}}</div>
{{end}}{{if .Phone}}<div class="phone"><span class="label">{{.Labels.Phone}}</span> <span class="value">{{.Phone}}</span></div>
{{end}}{{if .Email}}<div class="email"><span class="label">{{.Labels.Email}}</span> <span class="value">{{.Email}}</span></div>
{{end}}</header>
{{end}}

{{define "title"}}<h2 class="document-title">{{.Text}}</h2>
{{if .Subtitle}}<div class="document-subtitle">{{.Subtitle}}</div>
{{end}}{{end}}

{{define "customer"}}<div class="customer">
<span class="label">{{.Labels.Customer}}</span> <span class="value customer-name">{{.Name}}</span>
{{if .VATNumber}}<div class="customer-vat"><span class="label">{{.Labels.CustomerVAT}}</span> <span class="value">{{.VATNumber}}</span></div>
{{end}}{{if .Phone}}<div class="customer-phone"><span class="label">{{.Labels.Phone}}</span> <span class="value">{{.Phone}}</span></div>
{{end}}{{if .Address}}<div class="customer-address">{{.Address}}</div>
{{end}}</div>
{{end}}

{{define "metadata"}}<dl class="metadata">
{{range .Rows}}<div class="meta-row meta-{{.Key}}"><dt>{{.Label}}</dt><dd>{{.Value}}</dd></div>
{{end}}</dl>
{{end}}

{{define "items"}}<table class="items">
<thead><tr><th class="col-name">{{.Item}}</th><th class="col-qty">{{.Quantity}}</th><th class="col-price">{{.UnitPrice}}</th><th class="col-total">{{.LineTotal}}</th></tr></thead>
<tbody>
{{range .Rows}}<tr class="item-row"><td class="col-name">{{.Name}}</td><td class="col-qty">{{.Quantity}}</td><td class="col-price amount">{{.UnitPrice}}</td><td class="col-total amount">{{.LineTotal}}</td></tr>
{{if .Notes}}<tr class="item-detail-row"><td colspan="4"><span class="detail-label">{{$.NotesLabel}}</span> <span class="detail-text">{{.Notes}}</span></td></tr>
{{end}}{{end}}</tbody>
</table>
{{end}}

{{define "summary"}}<table class="summary">
<tbody>
{{range .Rows}}<tr class="summary-row summary-{{.Key}}{{if .Highlight}} highlight{{end}}"><th>{{.Label}}</th><td class="amount">{{.Value}}</td><td class="currency">{{$.Currency}}</td></tr>
{{end}}</tbody>
</table>
{{end}}

{{define "footer"}}<footer class="footer">
{{if .Text}}<div class="footer-text">{{.Text}}</div>
{{end}}{{if .QRImage}}<div class="compliance-qr" data-qr-payload="{{.QRPayload}}"><img src="{{.QRImage}}" alt="QR"></div>
{{end}}</footer>
{{end}}
`
