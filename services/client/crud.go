package client

import (
	"fmt"
	"time"

	"pawhaven/models"
	"pawhaven/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// GetClientByID fetches a client profile.
func (s *DefaultClientService) GetClientByID(clientID string) (*models.Client, error) {
	rec, err := s.Repo.GetByID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client %s: %w", clientID, err)
	}
	return rec, nil
}

// UpdateClient applies the mutable profile fields.
func (s *DefaultClientService) UpdateClient(clientID string, updates models.ClientUpdateRequest) (*models.Client, error) {
	set := bson.M{"updatedAt": time.Now()}
	if updates.Name != "" {
		set["name"] = updates.Name
	}
	if updates.PhoneNumber != "" {
		set["phoneNumber"] = updates.PhoneNumber
	}
	if err := s.Repo.UpdateSetDocument(clientID, set); err != nil {
		return nil, fmt.Errorf("failed to update client %s: %w", clientID, err)
	}
	return s.Repo.GetByID(clientID)
}

// DeleteClient removes the account.
func (s *DefaultClientService) DeleteClient(clientID string) error {
	if err := s.Repo.Delete(clientID); err != nil {
		return fmt.Errorf("failed to delete client %s: %w", clientID, err)
	}
	dropCachedTokenHash(clientID)
	return nil
}

// UpdateFCMToken stores the device's push token.
func (s *DefaultClientService) UpdateFCMToken(clientID, token string) error {
	set := bson.M{"fcmToken": token, "updatedAt": time.Now()}
	if err := s.Repo.UpdateSetDocument(clientID, set); err != nil {
		utils.GetLogger().Error("failed to update FCM token", zap.String("clientId", clientID), zap.Error(err))
		return fmt.Errorf("failed to update FCM token: %w", err)
	}
	return nil
}

// AddPet appends a pet to the client's profile.
func (s *DefaultClientService) AddPet(clientID string, pet models.Pet) (*models.Client, error) {
	if pet.Name == "" || pet.Species == "" {
		return nil, fmt.Errorf("pet name and species are required")
	}
	rec, err := s.Repo.GetByID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client %s: %w", clientID, err)
	}

	pet.ID = uuid.New().String()
	pet.CreatedAt = time.Now()
	pets := append(rec.Pets, pet)

	if err := s.Repo.UpdateSetDocument(clientID, bson.M{"pets": pets, "updatedAt": time.Now()}); err != nil {
		return nil, fmt.Errorf("failed to add pet: %w", err)
	}
	rec.Pets = pets
	return rec, nil
}

// UpdatePet replaces an existing pet entry, matched by id.
func (s *DefaultClientService) UpdatePet(clientID string, pet models.Pet) (*models.Client, error) {
	rec, err := s.Repo.GetByID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client %s: %w", clientID, err)
	}

	found := false
	for i := range rec.Pets {
		if rec.Pets[i].ID == pet.ID {
			pet.CreatedAt = rec.Pets[i].CreatedAt
			rec.Pets[i] = pet
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("pet %s not found", pet.ID)
	}

	if err := s.Repo.UpdateSetDocument(clientID, bson.M{"pets": rec.Pets, "updatedAt": time.Now()}); err != nil {
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}
	return rec, nil
}

// RemovePet deletes a pet entry by id.
func (s *DefaultClientService) RemovePet(clientID, petID string) (*models.Client, error) {
	rec, err := s.Repo.GetByID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client %s: %w", clientID, err)
	}

	pets := rec.Pets[:0]
	found := false
	for _, p := range rec.Pets {
		if p.ID == petID {
			found = true
			continue
		}
		pets = append(pets, p)
	}
	if !found {
		return nil, fmt.Errorf("pet %s not found", petID)
	}

	if err := s.Repo.UpdateSetDocument(clientID, bson.M{"pets": pets, "updatedAt": time.Now()}); err != nil {
		return nil, fmt.Errorf("failed to remove pet: %w", err)
	}
	rec.Pets = pets
	return rec, nil
}
