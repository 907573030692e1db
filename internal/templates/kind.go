package templates

import (
	"github.com/simonhull/nestling/internal/naming"
)

// Kind is one renderable file of a project or module.
type Kind int

const (
	MainEntry Kind = iota
	Readme
	AppEntry
	ProjectConfig
	Requirements
	Gitignore
	Settings
	SourceMarker
	Dockerfile
	Dockerignore

	PackageMarker
	ModuleWiring
	HTTPController
	ServiceLayer
	DataModel
	PersistenceEntity
)

var kindNames = map[Kind]string{
	MainEntry:         "main_entry",
	Readme:            "readme",
	AppEntry:          "app_entry",
	ProjectConfig:     "project_config",
	Requirements:      "requirements",
	Gitignore:         "gitignore",
	Settings:          "settings",
	SourceMarker:      "src_marker",
	Dockerfile:        "dockerfile",
	Dockerignore:      "dockerignore",
	PackageMarker:     "package_marker",
	ModuleWiring:      "module_wiring",
	HTTPController:    "http_controller",
	ServiceLayer:      "service_layer",
	DataModel:         "data_model",
	PersistenceEntity: "persistence_entity",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Project-level file names.
const (
	MainFile         = "main.py"
	ReadmeFile       = "README.md"
	AppFile          = "app.py"
	ConfigFile       = "config.py"
	RequirementsFile = "requirements.txt"
	GitignoreFile    = ".gitignore"
	SettingsFile     = "settings.yaml"
	DockerFile       = "Dockerfile"
	DockerignoreFile = ".dockerignore"
)

// AllKinds lists every kind, project kinds first.
func AllKinds() []Kind {
	return append(ProjectKinds(true), ModuleKinds()...)
}

// ProjectKinds lists the files of a new project skeleton in write order.
// The docker files are only part of the set when docker is true.
func ProjectKinds(docker bool) []Kind {
	kinds := []Kind{MainEntry, Readme, AppEntry, ProjectConfig, Requirements, Gitignore, Settings, SourceMarker}
	if docker {
		kinds = append(kinds, Dockerfile, Dockerignore)
	}
	return kinds
}

// ModuleKinds lists the files of one module bundle in write order.
func ModuleKinds() []Kind {
	return []Kind{PackageMarker, ModuleWiring, HTTPController, ServiceLayer, DataModel, PersistenceEntity}
}

// IsModule reports whether k belongs to a module bundle.
func (k Kind) IsModule() bool {
	return k >= PackageMarker
}

// Path returns the project-relative, slash-separated path of k.
// Module kinds take their directory and file names from m.
func (k Kind) Path(m naming.Descriptor) string {
	switch k {
	case MainEntry:
		return MainFile
	case Readme:
		return ReadmeFile
	case AppEntry:
		return AppFile
	case ProjectConfig:
		return ConfigFile
	case Requirements:
		return RequirementsFile
	case Gitignore:
		return GitignoreFile
	case Settings:
		return SettingsFile
	case SourceMarker:
		return naming.SourceDir + "/__init__" + naming.Ext
	case Dockerfile:
		return DockerFile
	case Dockerignore:
		return DockerignoreFile
	case PackageMarker:
		return m.InitFile()
	case ModuleWiring:
		return m.File("module")
	case HTTPController:
		return m.File("controller")
	case ServiceLayer:
		return m.File("service")
	case DataModel:
		return m.File("model")
	case PersistenceEntity:
		return m.File("entity")
	}
	return ""
}
