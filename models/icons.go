package models

// Icon keys are FontAwesome component names as stored by the admin UI.
// Only keys in the registry are passed through to clients; anything else
// resolves to the fallback for its entity type.
const (
	IconGraduationCap = "FaGraduationCap"
	IconQuestion      = "FaQuestionCircle"

	DefaultDegreeColor    = "text-gray-400"
	DefaultInstituteColor = "text-gray-300"
	DefaultSkillColor     = "text-gray-500"
)

var iconRegistry = map[string]struct{}{
	"FaAndroid":        {},
	"FaAngular":        {},
	"FaApple":          {},
	"FaAws":            {},
	"FaBook":           {},
	"FaBootstrap":      {},
	"FaBrain":          {},
	"FaCertificate":    {},
	"FaChalkboard":     {},
	"FaCode":           {},
	"FaCogs":           {},
	"FaCss3Alt":        {},
	"FaDatabase":       {},
	"FaDocker":         {},
	"FaFigma":          {},
	"FaGitAlt":         {},
	"FaGithub":         {},
	"FaGoogle":         {},
	"FaGraduationCap":  {},
	"FaHtml5":          {},
	"FaJava":           {},
	"FaJs":             {},
	"FaLaptopCode":     {},
	"FaLightbulb":      {},
	"FaLinux":          {},
	"FaMicrosoft":      {},
	"FaMobileAlt":      {},
	"FaNodeJs":         {},
	"FaPhp":            {},
	"FaPython":         {},
	"FaQuestionCircle": {},
	"FaReact":          {},
	"FaRobot":          {},
	"FaSass":           {},
	"FaSchool":         {},
	"FaServer":         {},
	"FaSwift":          {},
	"FaTerminal":       {},
	"FaUniversity":     {},
	"FaUserGraduate":   {},
	"FaVuejs":          {},
	"FaWindows":        {},
}

// ResolveIcon returns key when it is a registered icon and fallback
// otherwise.
func ResolveIcon(key, fallback string) string {
	if _, ok := iconRegistry[key]; ok {
		return key
	}
	return fallback
}

// KnownIcon reports whether key is registered.
func KnownIcon(key string) bool {
	_, ok := iconRegistry[key]
	return ok
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// ResolvedIcon returns the education icon or the graduation cap.
func (e Education) ResolvedIcon() string {
	return ResolveIcon(e.Icon, IconGraduationCap)
}

func (e Education) ResolvedDegreeColor() string {
	return orDefault(e.DegreeColor, DefaultDegreeColor)
}

func (e Education) ResolvedInstituteColor() string {
	return orDefault(e.InstituteColor, DefaultInstituteColor)
}

func (s Skill) ResolvedIcon() string {
	return ResolveIcon(s.Icon, IconQuestion)
}

func (s Skill) ResolvedColor() string {
	return orDefault(s.Color, DefaultSkillColor)
}
