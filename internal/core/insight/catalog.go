package insight

import (
	"strconv"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"

	perr "vortex/internal/platform/errors"
)

// DefaultLocale renders text when the requested locale is unknown
const DefaultLocale = "en"

// catalog maps locale -> rule id -> text. {0} is replaced by the rule's value
var catalog = map[string]map[string]string{
	"en": {
		InsightOpportunity:         "The driver is an evolutionary maintenance opportunity.",
		InsightCriticalFrustration: "Risk is driven by critical frustration (sentiment {0}) in the ticket.",
		InsightContractAnniversary: "Risk relates to the contract age ({0} months) and the end of the warranty cycle.",
		InsightHighVolume:          "Risk is associated with a high volume of corrective tickets ({0}) in the last month.",
		InsightMinorIssue:          "Risk is associated with minor technical issues.",

		RecommendUrgentRetention: "IMMEDIATE ACTION / URGENT RETENTION. Offer financial compensation or a discount to mitigate the CRITICAL risk.",
		RecommendProactiveUpsell: "CONVERT TO SALE / PROACTIVE OFFER. Prepare a detailed commercial proposal for evolutionary maintenance.",
		RecommendEscalation:      "ESCALATE TO MANAGEMENT / VIP. The account manager must personally contact the customer within 4 hours.",
		RecommendMonitoring:      "ACTIVE MONITORING. Ensure a fast resolution. The account manager should send a personalized follow-up email.",
	},
	"es": {
		InsightOpportunity:         "El impulsor es una Oportunidad de Mantenimiento Evolutivo.",
		InsightCriticalFrustration: "El riesgo es impulsado por una Frustración Crítica ({0}) en el ticket.",
		InsightContractAnniversary: "El riesgo se relaciona con la Antigüedad del Contrato ({0} meses) y fin del ciclo de garantía.",
		InsightHighVolume:          "El riesgo se asocia al Alto Volumen de Tickets Correctivos ({0}) en el último mes.",
		InsightMinorIssue:          "El riesgo se asocia a fallas técnicas menores.",

		RecommendUrgentRetention: "ACCIÓN INMEDIATA / RETENCIÓN URGENTE. Ofrecer una compensación financiera o descuento para mitigar el riesgo CRÍTICO.",
		RecommendProactiveUpsell: "CONVERTIR EN VENTA / OFERTA PROACTIVA. Generar una propuesta comercial detallada de Mantenimiento Evolutivo.",
		RecommendEscalation:      "ESCALAR A GERENCIA / VIP. El Account Manager debe contactar personalmente al cliente en menos de 4 horas.",
		RecommendMonitoring:      "MONITOREO ACTIVO. Asegurar la solución rápida. El Account Manager debe enviar un correo de seguimiento personalizado.",
	},
}

func newTranslator() (*ut.UniversalTranslator, error) {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc, es.New())
	for loc, texts := range catalog {
		trans, ok := uni.GetTranslator(loc)
		if !ok {
			return nil, perr.Configf("insight: no translator for %q", loc)
		}
		for key, text := range texts {
			if err := trans.Add(key, text, false); err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "insight: add %s/%s", loc, key)
			}
		}
		if err := trans.VerifyTranslations(); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "insight: verify %s", loc)
		}
	}
	return uni, nil
}

// param renders the value a rule names, formatted for the locale
func param(id string, s Signals, l locales.Translator) []string {
	switch id {
	case InsightCriticalFrustration:
		return []string{l.FmtNumber(s.Sentiment, 2)}
	case InsightContractAnniversary:
		return []string{strconv.Itoa(s.ContractAgeMonths)}
	case InsightHighVolume:
		return []string{strconv.Itoa(s.TicketsThisPeriod)}
	default:
		return nil
	}
}
