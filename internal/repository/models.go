package repository

import (
	"github.com/yz4230/hookdeploy/internal/entity"
	"gorm.io/gorm"
)

type Deployment struct {
	gorm.Model
	Service string `gorm:"index"`
	Commit  string
	Trigger string
	Status  string
	Stage   string
	Detail  string
}

func (d *Deployment) ToEntity() *entity.Deployment {
	return &entity.Deployment{
		ID:        entity.NewID(d.ID),
		Service:   d.Service,
		Commit:    d.Commit,
		Trigger:   entity.EventKind(d.Trigger),
		Status:    entity.DeploymentStatus(d.Status),
		Stage:     entity.Stage(d.Stage),
		Detail:    d.Detail,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d *Deployment) FromEntity(e *entity.Deployment) {
	d.ID = e.ID.Uint()
	d.Service = e.Service
	d.Commit = e.Commit
	d.Trigger = string(e.Trigger)
	d.Status = string(e.Status)
	d.Stage = string(e.Stage)
	d.Detail = e.Detail
}
