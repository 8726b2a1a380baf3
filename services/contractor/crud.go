package contractor

import (
	"fmt"
	"time"

	"pawhaven/models"
	"pawhaven/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// GetContractorByID fetches a contractor profile.
func (s *DefaultContractorService) GetContractorByID(contractorID string) (*models.Contractor, error) {
	rec, err := s.Repo.GetByID(contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contractor %s: %w", contractorID, err)
	}
	return rec, nil
}

// UpdateContractor applies the mutable profile fields.
func (s *DefaultContractorService) UpdateContractor(contractorID string, updates models.ContractorUpdateRequest) (*models.Contractor, error) {
	set := bson.M{"updatedAt": time.Now()}
	if updates.Name != "" {
		set["name"] = updates.Name
	}
	if updates.PhoneNumber != "" {
		set["phoneNumber"] = updates.PhoneNumber
	}
	if updates.Bio != "" {
		set["bio"] = updates.Bio
	}
	if err := s.Repo.UpdateSetDocument(contractorID, set); err != nil {
		return nil, fmt.Errorf("failed to update contractor %s: %w", contractorID, err)
	}
	return s.Repo.GetByID(contractorID)
}

// DeleteContractor removes the account.
func (s *DefaultContractorService) DeleteContractor(contractorID string) error {
	if err := s.Repo.Delete(contractorID); err != nil {
		return fmt.Errorf("failed to delete contractor %s: %w", contractorID, err)
	}
	dropCachedTokenHash(contractorID)
	return nil
}

// UpdateFCMToken stores the device's push token.
func (s *DefaultContractorService) UpdateFCMToken(contractorID, token string) error {
	set := bson.M{"fcmToken": token, "updatedAt": time.Now()}
	if err := s.Repo.UpdateSetDocument(contractorID, set); err != nil {
		utils.GetLogger().Error("failed to update FCM token", zap.String("contractorId", contractorID), zap.Error(err))
		return fmt.Errorf("failed to update FCM token: %w", err)
	}
	return nil
}

// SetOffering adds or replaces a catalogue entry, keyed by service type.
func (s *DefaultContractorService) SetOffering(contractorID string, offering models.ServiceOffering) (*models.Contractor, error) {
	if offering.ServiceType == "" || offering.Unit == "" {
		return nil, fmt.Errorf("serviceType and unit are required")
	}
	if offering.Rate <= 0 {
		return nil, fmt.Errorf("rate must be positive")
	}

	rec, err := s.Repo.GetByID(contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contractor %s: %w", contractorID, err)
	}

	replaced := false
	for i := range rec.Services {
		if rec.Services[i].ServiceType == offering.ServiceType {
			rec.Services[i] = offering
			replaced = true
			break
		}
	}
	if !replaced {
		rec.Services = append(rec.Services, offering)
	}

	if err := s.Repo.UpdateSetDocument(contractorID, bson.M{"services": rec.Services, "updatedAt": time.Now()}); err != nil {
		return nil, fmt.Errorf("failed to update catalogue: %w", err)
	}
	return rec, nil
}

// RemoveOffering deletes a catalogue entry by service type.
func (s *DefaultContractorService) RemoveOffering(contractorID, serviceType string) (*models.Contractor, error) {
	rec, err := s.Repo.GetByID(contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contractor %s: %w", contractorID, err)
	}

	services := rec.Services[:0]
	found := false
	for _, o := range rec.Services {
		if o.ServiceType == serviceType {
			found = true
			continue
		}
		services = append(services, o)
	}
	if !found {
		return nil, fmt.Errorf("offering %q not found", serviceType)
	}

	if err := s.Repo.UpdateSetDocument(contractorID, bson.M{"services": services, "updatedAt": time.Now()}); err != nil {
		return nil, fmt.Errorf("failed to update catalogue: %w", err)
	}
	rec.Services = services
	return rec, nil
}
