// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Collection levels.
const (
	LevelRoot    = 0
	LevelClient  = 1
	LevelProject = 2
)

// Collection describes one data-publish endpoint.
type Collection struct {
	// Name is the data set identifier used as cursor and entity key
	// (e.g. "clients").
	Name string

	// Path is the endpoint segment under the data-publish base URL
	// (e.g. "Clients").
	Path string

	// ItemsField is the JSON field of the response holding the updates
	// (e.g. "clientUpdates").
	ItemsField string

	// KeyFields are the item fields that together identify an entity.
	KeyFields []string

	// FallbackKeyFields identify an item that lacks one of KeyFields. Items
	// of such a collection missing both are skipped.
	FallbackKeyFields []string

	// PageSize is the limit requested for this collection. Zero uses the
	// adapter default.
	PageSize int

	// Level is the number of scope segments the endpoint expects.
	Level int
}

// Data sets published by the API. Root, project and their immediate
// children page by 100, the high volume collections by 1000.
var (
	Clients = Collection{Name: "clients", Path: "Clients", ItemsField: "clientUpdates", KeyFields: []string{"clientID"}, PageSize: 100, Level: LevelRoot}

	Projects      = Collection{Name: "projects", Path: "Projects", ItemsField: "projectUpdates", KeyFields: []string{"projectID"}, PageSize: 100, Level: LevelClient}
	Workers       = Collection{Name: "workers", Path: "Workers", ItemsField: "workerUpdates", KeyFields: []string{"userID"}, PageSize: 1000, Level: LevelClient}
	WorkerInvites = Collection{Name: "workerinvites", Path: "WorkerInvites", ItemsField: "workerInviteUpdates", KeyFields: []string{"invitationID"}, PageSize: 1000, Level: LevelClient}

	Stations          = Collection{Name: "stations", Path: "Stations", ItemsField: "stationUpdates", KeyFields: []string{"stationID"}, PageSize: 100, Level: LevelProject}
	Teams             = Collection{Name: "teams", Path: "Teams", ItemsField: "teamUpdates", KeyFields: []string{"teamCompanyID"}, PageSize: 100, Level: LevelProject}
	WorkersOnProject  = Collection{Name: "workersonproject", Path: "WorkersOnProject", ItemsField: "workerOnProjectUpdates", KeyFields: []string{"userID"}, PageSize: 1000, Level: LevelProject}
	WorkersOnTeam     = Collection{Name: "workersonteam", Path: "WorkersOnTeam", ItemsField: "workerOnTeamUpdates", KeyFields: []string{"teamCompanyID", "userID"}, PageSize: 1000, Level: LevelProject}
	WorkerDetections  = Collection{Name: "workerdetections", Path: "WorkerDetections", ItemsField: "workerDetectionUpdates", KeyFields: []string{"teamCompanyID", "userID", "startTS"}, PageSize: 1000, Level: LevelProject}
	WorkerLabor       = Collection{Name: "workerlabor", Path: "WorkerLabor", ItemsField: "workerLaborUpdates", KeyFields: []string{"teamCompanyID", "userID", "startTS"}, PageSize: 1000, Level: LevelProject}
	WeatherConditions = Collection{Name: "weatherconds", Path: "WeatherConditions", ItemsField: "weatherConditionsUpdates", KeyFields: []string{"conditionTime"}, PageSize: 1000, Level: LevelProject}
	WeatherAlerts     = Collection{Name: "weatheralerts", Path: "WeatherAlerts", ItemsField: "weatherAlertsUpdates", KeyFields: []string{"id"}, FallbackKeyFields: []string{"sentTS", "event"}, PageSize: 1000, Level: LevelProject}
)

// ClientCollections are synced once per client, before projects.
var ClientCollections = []Collection{Workers, WorkerInvites}

// ProjectCollections are synced once per project.
var ProjectCollections = []Collection{
	Stations,
	Teams,
	WorkersOnProject,
	WorkersOnTeam,
	WorkerDetections,
	WorkerLabor,
	WeatherConditions,
	WeatherAlerts,
}

// LookupCollection finds a collection of the catalog by name.
func LookupCollection(name string) (Collection, bool) {
	all := append([]Collection{Clients, Projects}, ClientCollections...)
	all = append(all, ProjectCollections...)
	for _, c := range all {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}
