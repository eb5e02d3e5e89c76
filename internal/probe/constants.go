package probe

// Output file names written into Config.OutDir.
const (
	SkillsFile    = "skills.svg"
	AuditsFile    = "audits.svg"
	DashboardFile = "dashboard.json"
)

// PasswordEnv names the variable read when no password flag is given.
const PasswordEnv = "PROFILE_PROBE_PASSWORD"

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)
