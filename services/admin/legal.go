package admin

import (
	"pawhaven/models"
	"time"
)

// GetLegalSections returns all legal documents.
func (a *DefaultAdminService) GetLegalSections() []models.LegalSection {
	now := time.Now().UTC().Format(time.RFC3339)

	return []models.LegalSection{
		{
			ID:       "tos",
			Title:    "Terms of Service",
			Summary:  "These terms govern your use of the PawHaven platform.",
			Content:  generateTermsOfService(),
			Category: models.RoleClient,
			Version:  "v1.0",
			Updated:  now,
		},
		{
			ID:       "privacy",
			Title:    "Privacy Policy",
			Summary:  "How PawHaven collects and uses personal data.",
			Content:  generatePrivacyPolicy(),
			Category: models.RoleClient,
			Version:  "v1.0",
			Updated:  now,
		},
		{
			ID:       "conduct",
			Title:    "Community Guidelines & Code of Conduct",
			Summary:  "Rules all pet owners and care providers must follow.",
			Content:  generateCodeOfConduct(),
			Category: models.RoleBoth,
			Version:  "v1.0",
			Updated:  now,
		},
		{
			ID:       "payments",
			Title:    "Payment & Cancellation Policy",
			Summary:  "How payments, refunds, and cancellations work on PawHaven.",
			Content:  generatePaymentPolicy(),
			Category: models.RoleBoth,
			Version:  "v1.0",
			Updated:  now,
		},
	}
}

// GetLegalSectionsFor returns legal documents relevant to the specified role.
func (a *DefaultAdminService) GetLegalSectionsFor(role string) []models.LegalSection {
	all := a.GetLegalSections()
	var filtered []models.LegalSection

	for _, section := range all {
		if section.Category == models.RoleBoth || section.Category == role {
			filtered = append(filtered, section)
		}
	}
	return filtered
}

func generateTermsOfService() string {
	return `Welcome to PawHaven. By accessing or using our platform, you agree to be bound by these Terms of Service...

1. Eligibility: You must be 18+ to use PawHaven.
2. Platform Use: PawHaven connects pet owners with independent care providers.
3. Liability: PawHaven is a facilitator; providers are independent.
4. Payments: Payments are authorized at booking and captured after both parties confirm completion.
5. Cancellations: Bookings may be cancelled before completion; the payment hold is released.
6. Disputes: Disputes must be reported within 48 hours after service.

Full details available on our website.`
}

func generatePrivacyPolicy() string {
	return `PawHaven values your privacy. We collect minimal personal data only as required to provide you with a seamless experience...

1. Data We Collect: Name, email, pet profiles, payment info.
2. How We Use It: Booking, billing, communication.
3. Third Parties: Stripe (payments), Firebase (sign-in, notifications).
4. Rights: You can request data deletion anytime.

See our full privacy terms online.`
}

func generateCodeOfConduct() string {
	return `All PawHaven pet owners and care providers agree to:

- Be respectful and professional.
- Provide accurate pet and service information.
- Respect time and privacy of others.
- Follow all applicable animal-welfare laws.

Violations may result in suspension or removal.`
}

func generatePaymentPolicy() string {
	return `1. Payments are securely processed via Stripe.
2. Your card is authorized when you book; you are charged only after both you and the provider confirm the visit happened.
3. Provider payouts are transferred to their connected account after capture.
4. Cancellations before completion release the authorization in full.
5. Refunds are issued for no-shows or service failures (on review).`
}
