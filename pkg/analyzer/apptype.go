package analyzer

// AppType classifies the runtime pattern of an analyzed application. It
// drives port exposure and the startup command of the generated Dockerfile.
type AppType string

const (
	AppFlask     AppType = "flask"
	AppDjango    AppType = "django"
	AppFastAPI   AppType = "fastapi"
	AppStreamlit AppType = "streamlit"
	AppScript    AppType = "script"
)

// appTypeRules is evaluated in priority order; the first rule whose module is
// present in the import set wins. Signals are never combined.
var appTypeRules = []struct {
	module string
	app    AppType
}{
	{"flask", AppFlask},
	{"django", AppDjango},
	{"fastapi", AppFastAPI},
	{"streamlit", AppStreamlit},
}

// ClassifyAppType maps an import set to an application type. Sources that
// import none of the known frameworks are plain scripts.
func ClassifyAppType(imports []string) AppType {
	present := make(map[string]struct{}, len(imports))
	for _, name := range imports {
		present[name] = struct{}{}
	}
	for _, rule := range appTypeRules {
		if _, ok := present[rule.module]; ok {
			return rule.app
		}
	}
	return AppScript
}
