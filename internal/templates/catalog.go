package templates

import "github.com/evencio/evencio/internal/models"

// CatalogEntry describes one default template shipped with the product.
type CatalogEntry struct {
	Name        string
	Description string
	Subject     string
	Category    string
	Type        string
	HTMLContent string
	TextContent string
}

// DefaultCatalog returns the fixed set of 13 default templates, grouped into
// four audiences: registration, participant lifecycle, exhibitor lifecycle,
// speaker lifecycle. Seeded templates are inactive, global and default.
func DefaultCatalog() []CatalogEntry {
	return []CatalogEntry{
		// Registration
		{
			Name:        "Confirmation d'inscription",
			Description: "Envoyé automatiquement après une inscription validée.",
			Subject:     "Votre inscription à {{eventName}} est confirmée",
			Category:    models.TemplateCategoryRegistrationConfirmation,
			Type:        models.TemplateTypeInvitation,
			HTMLContent: wrap(`<h1>Inscription confirmée</h1>
<p>Bonjour {{participantName}},</p>
<p>Votre inscription à <strong>{{eventName}}</strong> est bien enregistrée.</p>
<p>Rendez-vous le {{eventDate}} à {{eventTime}}, {{eventLocation}}.</p>`),
			TextContent: "Bonjour {{participantName}}, votre inscription à {{eventName}} est confirmée. Rendez-vous le {{eventDate}} à {{eventTime}}, {{eventLocation}}.",
		},

		// Participant lifecycle
		{
			Name:        "Bienvenue participant",
			Description: "Message de bienvenue envoyé à l'approche de l'événement.",
			Subject:     "Bienvenue à {{eventName}} !",
			Category:    models.TemplateCategoryParticipantWelcome,
			Type:        models.TemplateTypeAnnouncement,
			HTMLContent: wrap(`<h1>Bienvenue !</h1>
<p>Bonjour {{participantName}},</p>
<p>Toute l'équipe de {{organizerName}} est heureuse de vous accueillir à <strong>{{eventName}}</strong>.</p>
<p>Une question ? Écrivez-nous : {{supportEmail}}.</p>`),
		},
		{
			Name:        "Rappel événement",
			Description: "Rappel envoyé la veille de l'événement.",
			Subject:     "C'est demain : {{eventName}}",
			Category:    models.TemplateCategoryEventReminder,
			Type:        models.TemplateTypeReminder,
			HTMLContent: wrap(`<h1>À demain !</h1>
<p>Bonjour {{participantName}},</p>
<p><strong>{{eventName}}</strong> ouvre ses portes le {{eventDate}} à {{eventTime}}.</p>
<p>Adresse : {{eventLocation}}.</p>`),
		},
		{
			Name:        "Suivi post-événement",
			Description: "Remerciement et questionnaire de satisfaction.",
			Subject:     "Merci d'avoir participé à {{eventName}}",
			Category:    models.TemplateCategoryPostEventFollowUp,
			Type:        models.TemplateTypeFollowUp,
			HTMLContent: wrap(`<h1>Merci !</h1>
<p>Bonjour {{participantName}},</p>
<p>Merci d'avoir participé à <strong>{{eventName}}</strong>. Votre avis nous intéresse.</p>
<p>L'équipe {{organizerName}}.</p>`),
		},
		{
			Name:        "Invitation networking",
			Description: "Invite les participants à planifier des rendez-vous.",
			Subject:     "Planifiez vos rendez-vous pour {{eventName}}",
			Category:    models.TemplateCategoryNetworkingInvitation,
			Type:        models.TemplateTypeInvitation,
			HTMLContent: wrap(`<h1>Développez votre réseau</h1>
<p>Bonjour {{participantName}},</p>
<p>L'espace networking de <strong>{{eventName}}</strong> est ouvert : proposez dès maintenant des rendez-vous aux autres participants.</p>`),
		},

		// Exhibitor lifecycle
		{
			Name:        "Bienvenue exposant",
			Description: "Accueil des exposants avec leur numéro de stand.",
			Subject:     "{{eventName}} : informations exposant",
			Category:    models.TemplateCategoryExhibitorWelcome,
			Type:        models.TemplateTypeAnnouncement,
			HTMLContent: wrap(`<h1>Bienvenue parmi nos exposants</h1>
<p>Bonjour {{participantName}},</p>
<p>Nous sommes ravis de compter {{participantCompany}} parmi les exposants de <strong>{{eventName}}</strong>.</p>
{{#if standNumber}}<p>Votre stand : <strong>{{standNumber}}</strong>.</p>{{/if}}`),
		},
		{
			Name:        "Rappel installation stand",
			Description: "Consignes d'installation la veille de l'ouverture.",
			Subject:     "Installation de votre stand — {{eventName}}",
			Category:    models.TemplateCategoryStandSetupReminder,
			Type:        models.TemplateTypeReminder,
			HTMLContent: wrap(`<h1>Installation des stands</h1>
<p>Bonjour {{participantName}},</p>
<p>L'installation des stands a lieu la veille de l'ouverture, à partir de 14h, {{eventLocation}}.</p>
{{#if standNumber}}<p>Rappel de votre emplacement : stand <strong>{{standNumber}}</strong>.</p>{{/if}}`),
		},
		{
			Name:        "Informations pratiques exposant",
			Description: "Accès, livraisons et badges pour les exposants.",
			Subject:     "Infos pratiques exposant — {{eventName}}",
			Category:    models.TemplateCategoryExhibitorPracticals,
			Type:        models.TemplateTypeAnnouncement,
			HTMLContent: wrap(`<h1>Informations pratiques</h1>
<p>Bonjour {{participantName}},</p>
<p>Retrouvez ci-dessous les informations d'accès et de livraison pour <strong>{{eventName}}</strong> ({{eventLocation}}).</p>
<p>Badges exposants à retirer à l'accueil dès {{eventTime}}.</p>`),
		},
		{
			Name:        "Suivi exposant",
			Description: "Bilan et remerciements aux exposants.",
			Subject:     "Merci pour votre participation à {{eventName}}",
			Category:    models.TemplateCategoryExhibitorFollowUp,
			Type:        models.TemplateTypeFollowUp,
			HTMLContent: wrap(`<h1>Merci !</h1>
<p>Bonjour {{participantName}},</p>
<p>Merci à {{participantCompany}} pour sa présence à <strong>{{eventName}}</strong>. Nous reviendrons vers vous avec le bilan complet.</p>`),
		},

		// Speaker lifecycle
		{
			Name:        "Bienvenue intervenant",
			Description: "Accueil des intervenants et confirmation de leur créneau.",
			Subject:     "{{eventName}} : votre intervention",
			Category:    models.TemplateCategorySpeakerWelcome,
			Type:        models.TemplateTypeAnnouncement,
			HTMLContent: wrap(`<h1>Bienvenue !</h1>
<p>Bonjour {{participantName}},</p>
<p>Merci d'intervenir à <strong>{{eventName}}</strong>.</p>
{{#if presentationTitle}}<p>Votre présentation : <em>{{presentationTitle}}</em>.</p>{{/if}}`),
		},
		{
			Name:        "Rappel présentation",
			Description: "Rappel de créneau envoyé aux intervenants.",
			Subject:     "Rappel : votre présentation à {{eventName}}",
			Category:    models.TemplateCategoryTalkReminder,
			Type:        models.TemplateTypeReminder,
			HTMLContent: wrap(`<h1>À très vite</h1>
<p>Bonjour {{participantName}},</p>
<p>Votre intervention à <strong>{{eventName}}</strong> approche.</p>
{{#if presentationTitle}}<p>Présentation : <em>{{presentationTitle}}</em>.</p>{{/if}}
<p>Merci d'arriver 30 minutes avant votre créneau.</p>`),
		},
		{
			Name:        "Informations techniques intervenant",
			Description: "Matériel, formats de slides et régie.",
			Subject:     "Infos techniques — {{eventName}}",
			Category:    models.TemplateCategorySpeakerTechDetails,
			Type:        models.TemplateTypeAnnouncement,
			HTMLContent: wrap(`<h1>Informations techniques</h1>
<p>Bonjour {{participantName}},</p>
<p>La régie de <strong>{{eventName}}</strong> accepte les slides aux formats PDF et 16:9.</p>
<p>Un micro-cravate et un retour écran sont fournis dans chaque salle.</p>`),
		},
		{
			Name:        "Suivi intervenant",
			Description: "Remerciements et partage des replays.",
			Subject:     "Merci pour votre intervention à {{eventName}}",
			Category:    models.TemplateCategorySpeakerFollowUp,
			Type:        models.TemplateTypeFollowUp,
			HTMLContent: wrap(`<h1>Merci !</h1>
<p>Bonjour {{participantName}},</p>
<p>Merci pour votre intervention à <strong>{{eventName}}</strong>. Les replays seront partagés par {{organizerName}}.</p>`),
		},
	}
}

// wrap applies the shared layout: optional banner header plus a footer with
// the organizer contact.
func wrap(body string) string {
	return `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
{{#if eventBanner}}<img src="{{eventBanner}}" alt="{{eventName}}" style="width:100%;"/>{{/if}}
` + body + `
<hr/>
<p style="color:#888;font-size:12px;">{{organizerName}} — {{supportEmail}}</p>
</div>`
}
