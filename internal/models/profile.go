package model

import (
	"fmt"
	"strings"
)

const (
	ProfileAPIService = "api-service"
	ProfileBackend    = "backend"
	ProfileWebApp     = "web-app"
)

// Profile describes one deployment of the service: which table it serves,
// which optional columns that table has and where its routes are mounted.
type Profile struct {
	Name           string
	Table          string
	Resource       string
	Noun           string
	RoutePrefix    string
	HasDescription bool
	HasUpdatedAt   bool
}

var profiles = map[string]Profile{
	ProfileAPIService: {
		Name:        ProfileAPIService,
		Table:       "todos",
		Resource:    "todos",
		Noun:        "todo",
		RoutePrefix: "/api",
	},
	ProfileBackend: {
		Name:           ProfileBackend,
		Table:          "tasks",
		Resource:       "tasks",
		Noun:           "task",
		RoutePrefix:    "/api",
		HasDescription: true,
		HasUpdatedAt:   true,
	},
	ProfileWebApp: {
		Name:        ProfileWebApp,
		Table:       "todos",
		Resource:    "todos",
		Noun:        "todo",
		RoutePrefix: "/app",
	},
}

func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("unknown service profile %q (want %s, %s or %s)",
			name, ProfileAPIService, ProfileBackend, ProfileWebApp)
	}
	return p, nil
}

// Columns lists the table's columns in select order.
func (p Profile) Columns() []string {
	cols := []string{"id", "title"}
	if p.HasDescription {
		cols = append(cols, "description")
	}
	cols = append(cols, "completed", "created_at")
	if p.HasUpdatedAt {
		cols = append(cols, "updated_at")
	}
	return cols
}

// HasColumn reports whether col is one of the profile's columns.
func (p Profile) HasColumn(col string) bool {
	for _, c := range p.Columns() {
		if c == col {
			return true
		}
	}
	return false
}

// NotFoundMessage is the 404 message, e.g. "Task not found".
func (p Profile) NotFoundMessage() string {
	return p.title() + " not found"
}

// DeletedMessage is the message returned alongside a deleted record, e.g. "Todo deleted".
func (p Profile) DeletedMessage() string {
	return p.title() + " deleted"
}

func (p Profile) title() string {
	if p.Noun == "" {
		return "Record"
	}
	return strings.ToUpper(p.Noun[:1]) + p.Noun[1:]
}

// Schema returns the gorm model used to create the profile's table.
func (p Profile) Schema() interface{} {
	if p.HasDescription || p.HasUpdatedAt {
		return &taskSchema{}
	}
	return &todoSchema{}
}
