package constants

type TeamType string

const (
	TeamEngineering TeamType = "engineering"
	TeamDesign      TeamType = "design"
	TeamMarketing   TeamType = "marketing"
	TeamOperations  TeamType = "operations"
	TeamGeneral     TeamType = "general"
)

func (t TeamType) Valid() bool {
	switch t {
	case TeamEngineering, TeamDesign, TeamMarketing, TeamOperations, TeamGeneral:
		return true
	}
	return false
}

const (
	SampleIDPrefix = "sample-"
	LocalIDPrefix  = "local-"
	SampleTeamID   = SampleIDPrefix + "team"
)
