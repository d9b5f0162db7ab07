package service

import (
	"context"
	"fmt"

	"halqa-daily/internal/model"

	"gorm.io/gorm"
)

// halqaInfo caches halqa and supervisor rows for building response
// views without a query per user.
type halqaInfo struct {
	halqas       map[int]model.Halqa // by halqa id
	supervisors  map[int]model.User  // by supervisor user id
	bySupervisor map[int]model.Halqa // halqa keyed by its supervisor's user id
}

func loadHalqaInfo(ctx context.Context, db *gorm.DB) (*halqaInfo, error) {
	var halqas []model.Halqa
	if err := db.WithContext(ctx).Find(&halqas).Error; err != nil {
		return nil, fmt.Errorf("query halqas: %w", err)
	}

	info := &halqaInfo{
		halqas:       make(map[int]model.Halqa, len(halqas)),
		supervisors:  make(map[int]model.User),
		bySupervisor: make(map[int]model.Halqa),
	}
	var supIDs []int
	for _, h := range halqas {
		info.halqas[h.ID] = h
		if h.SupervisorID != nil {
			supIDs = append(supIDs, *h.SupervisorID)
			info.bySupervisor[*h.SupervisorID] = h
		}
	}
	if len(supIDs) > 0 {
		var sups []model.User
		if err := db.WithContext(ctx).Where("id IN ?", supIDs).Find(&sups).Error; err != nil {
			return nil, fmt.Errorf("query supervisors: %w", err)
		}
		for _, s := range sups {
			info.supervisors[s.ID] = s
		}
	}
	return info, nil
}

func (i *halqaInfo) userView(u model.User) model.UserView {
	v := model.UserView{User: u}
	if u.HalqaID != nil {
		if h, ok := i.halqas[*u.HalqaID]; ok {
			v.HalqaName = h.Name
			if h.SupervisorID != nil {
				if s, ok := i.supervisors[*h.SupervisorID]; ok {
					v.SupervisorName = s.FullName
					v.SupervisorPhone = s.Phone
				}
			}
		}
	}
	if h, ok := i.bySupervisor[u.ID]; ok {
		v.SupervisedHalqaName = h.Name
	}
	return v
}

func (i *halqaInfo) halqaName(u model.User) string {
	if u.HalqaID != nil {
		if h, ok := i.halqas[*u.HalqaID]; ok {
			return h.Name
		}
	}
	return "-"
}

func (i *halqaInfo) supervisorName(u model.User) string {
	if u.HalqaID != nil {
		if h, ok := i.halqas[*u.HalqaID]; ok && h.SupervisorID != nil {
			if s, ok := i.supervisors[*h.SupervisorID]; ok {
				return s.FullName
			}
		}
	}
	return "-"
}

func userViews(info *halqaInfo, users []model.User) []model.UserView {
	out := make([]model.UserView, len(users))
	for idx, u := range users {
		out[idx] = info.userView(u)
	}
	return out
}
