package checkout

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/b2b-portal/internal/customers"
	"github.com/angelmondragon/b2b-portal/internal/evidence"
	"github.com/angelmondragon/b2b-portal/pkg/enums"
)

const (
	ChannelMarker          = "Canal: Portal B2B"
	IncompleteProfileNote  = "PERFIL INCOMPLETO - verificar datos manualmente"
	EvidenceFailedNote     = "ERROR AL SUBIR - solicitar comprobante al cliente"
	EvidenceNotRequiredTxt = "no requerido"
)

// NoteInput is everything the order note shows to the platform's operators.
type NoteInput struct {
	CustomerEmail   string
	DiscountPercent int
	PaymentMethod   enums.PaymentMethod
	Evidence        evidence.Result
	Profile         *customers.BusinessProfile
	Comment         string
}

// BuildNote renders the line-oriented order note. Equal inputs give equal output.
func BuildNote(in NoteInput) string {
	lines := []string{
		ChannelMarker,
		"Cliente: " + in.CustomerEmail,
		fmt.Sprintf("Descuento B2B: %d%%", in.DiscountPercent),
		"Medio de pago: " + in.PaymentMethod.String(),
		"Comprobante: " + evidenceLine(in.Evidence),
	}

	if in.Profile.IsComplete() {
		p := in.Profile.Trimmed()
		lines = append(lines,
			"--- Datos de facturación ---",
			"Razón social: "+p.LegalName,
			"RUT: "+p.TaxID,
			"Giro: "+p.BusinessActivity,
			"Dirección: "+p.Address,
			"Comuna: "+p.Commune,
			"Región: "+p.Region,
			"Contacto: "+p.ContactName,
			"Teléfono: "+p.ContactPhone,
			"Email contacto: "+p.ContactEmail,
		)
	} else {
		lines = append(lines, IncompleteProfileNote)
	}

	if comment := strings.TrimSpace(in.Comment); comment != "" {
		lines = append(lines, "Comentario del cliente: "+comment)
	}
	return strings.Join(lines, "\n")
}

func evidenceLine(res evidence.Result) string {
	switch res.Status {
	case enums.EvidenceStatusUploaded:
		return res.URL
	case enums.EvidenceStatusFailed:
		return EvidenceFailedNote
	default:
		return EvidenceNotRequiredTxt
	}
}

// BuildTags returns the machine-readable tags attached to the draft order.
func BuildTags(percent int, method enums.PaymentMethod, profileComplete bool, ev evidence.Result) []string {
	profileTag := "perfil-incompleto"
	if profileComplete {
		profileTag = "perfil-completo"
	}
	evidenceTag := "sin-comprobante"
	switch ev.Status {
	case enums.EvidenceStatusUploaded:
		evidenceTag = "comprobante-adjunto"
	case enums.EvidenceStatusFailed:
		evidenceTag = "comprobante-fallido"
	}
	return []string{
		"portal-b2b",
		fmt.Sprintf("descuento-%d", percent),
		"pago-" + method.String(),
		profileTag,
		evidenceTag,
	}
}
