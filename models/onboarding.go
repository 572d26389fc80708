package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OnboardingStatus string

const (
	OnboardingInProgress OnboardingStatus = "IN_PROGRESS"
	OnboardingCompleted  OnboardingStatus = "COMPLETED"
)

type OnboardingStep struct {
	Key         string     `json:"key" bson:"key"`
	Title       string     `json:"title" bson:"title"`
	Completed   bool       `json:"completed" bson:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// OnboardingRecord tracks a consultant walking a new client through setup
type OnboardingRecord struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ResellerType ResellerType       `json:"resellerType" bson:"resellerType"`
	ResellerID   primitive.ObjectID `json:"resellerId" bson:"resellerId"`
	ClientID     primitive.ObjectID `json:"clientId" bson:"clientId"`
	Steps        []OnboardingStep   `json:"steps" bson:"steps"`
	Status       OnboardingStatus   `json:"status" bson:"status"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DefaultOnboardingSteps is the checklist every new client starts with
func DefaultOnboardingSteps() []OnboardingStep {
	return []OnboardingStep{
		{Key: "account", Title: "Create owner account"},
		{Key: "license", Title: "Upload dispensary license details"},
		{Key: "store", Title: "Configure store settings"},
		{Key: "inventory", Title: "Import initial inventory"},
		{Key: "staff", Title: "Invite staff"},
		{Key: "training", Title: "Complete point-of-sale training"},
	}
}

// CompleteStep marks key done and returns false when the key is unknown.
// The record flips to COMPLETED once every step is done.
func (o *OnboardingRecord) CompleteStep(key string, at time.Time) bool {
	found := false
	done := true
	for i := range o.Steps {
		if o.Steps[i].Key == key {
			found = true
			if !o.Steps[i].Completed {
				o.Steps[i].Completed = true
				o.Steps[i].CompletedAt = &at
			}
		}
		if !o.Steps[i].Completed {
			done = false
		}
	}
	if found && done {
		o.Status = OnboardingCompleted
	}
	return found
}

// Progress returns completed steps as a percentage
func (o *OnboardingRecord) Progress() int {
	if len(o.Steps) == 0 {
		return 0
	}
	n := 0
	for _, s := range o.Steps {
		if s.Completed {
			n++
		}
	}
	return n * 100 / len(o.Steps)
}

type OnboardingInput struct {
	ClientID string `json:"clientId" validate:"required"`
}
