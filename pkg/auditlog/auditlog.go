package auditlog

import (
	"log"

	"pharmhouse/pkg/models"
)

type LogStore interface {
	PersistLog(entry models.AuditLog, data interface{}) error
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

type Auditlog struct {
	r LogStore
}

func (a *Auditlog) Log(action string, actor string, data interface{}, item Auditable) {
	entry := item.CreateLogView()
	entry.Action = action
	entry.Actor = actor

	err := a.r.PersistLog(entry, data)

	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", entry.ResourceID)
		return
	}

	log.Println("Created AuditLog entry for id ", entry.ResourceID)
}

func NewAuditLog(store LogStore) *Auditlog {
	a := Auditlog{r: store}

	return &a
}
