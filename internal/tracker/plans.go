// ABOUTME: Plan operations on the stored profile: create, edit, delete, activate.
// ABOUTME: Validation and list rules live in the plans package; this file persists results.
package tracker

import (
	"github.com/harperreed/weightplan/internal/models"
	"github.com/harperreed/weightplan/internal/plans"
)

// Plans returns the stored plans in creation order.
func (t *Tracker) Plans() ([]models.Plan, error) {
	s, err := t.Load()
	if err != nil {
		return nil, err
	}
	return s.Profile.Plans, nil
}

// CreatePlan validates and stores a new plan. When activate is set, or the
// plan is the first one, it becomes the only active plan.
func (t *Tracker) CreatePlan(in plans.Input, activate bool) (models.Plan, error) {
	s, err := t.Load()
	if err != nil {
		return models.Plan{}, err
	}
	list, created, err := plans.Create(s.Profile.Plans, in, t.now())
	if err != nil {
		return models.Plan{}, err
	}
	if activate {
		list = plans.SetActive(list, created.ID)
		created.IsActive = true
	}
	if err := t.savePlans(s, list); err != nil {
		return models.Plan{}, err
	}
	t.logger.Debug("created plan", "id", models.ShortID(created.ID), "active", created.IsActive)
	return created, nil
}

// EditPlan replaces the fields of the plan matching idOrPrefix.
func (t *Tracker) EditPlan(idOrPrefix string, in plans.Input) (models.Plan, error) {
	s, err := t.Load()
	if err != nil {
		return models.Plan{}, err
	}
	list, edited, err := plans.Edit(s.Profile.Plans, idOrPrefix, in, t.now())
	if err != nil {
		return models.Plan{}, err
	}
	if err := t.savePlans(s, list); err != nil {
		return models.Plan{}, err
	}
	return edited, nil
}

// DeletePlan removes the plan matching idOrPrefix. Deleting the active plan
// leaves no plan active.
func (t *Tracker) DeletePlan(idOrPrefix string) (models.Plan, error) {
	s, err := t.Load()
	if err != nil {
		return models.Plan{}, err
	}
	list, removed, err := plans.Delete(s.Profile.Plans, idOrPrefix)
	if err != nil {
		return models.Plan{}, err
	}
	if err := t.savePlans(s, list); err != nil {
		return models.Plan{}, err
	}
	return removed, nil
}

// ActivatePlan makes the plan matching idOrPrefix the only active plan.
func (t *Tracker) ActivatePlan(idOrPrefix string) (models.Plan, error) {
	s, err := t.Load()
	if err != nil {
		return models.Plan{}, err
	}
	idx, err := plans.Find(s.Profile.Plans, idOrPrefix)
	if err != nil {
		return models.Plan{}, err
	}
	list := plans.SetActive(s.Profile.Plans, s.Profile.Plans[idx].ID)
	if err := t.savePlans(s, list); err != nil {
		return models.Plan{}, err
	}
	return list[idx], nil
}

func (t *Tracker) savePlans(s *State, list []models.Plan) error {
	s.Profile.Plans = list
	return t.repo.SaveProfile(&s.Profile)
}
