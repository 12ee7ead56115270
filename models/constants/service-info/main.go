package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Helix Chat Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the Helix genomic prediction chat API!"
	SERVICE_DESCRIPTION ServiceInfo = "Helix conversational front-end for a genomic prediction model."
	SERVICE_CONTACT     ServiceInfo = "mailto:helix-maintainers@example.org"

	SERVICE_ARTIFACT    ServiceInfo = "helix"
	SERVICE_VERSION     ServiceInfo = "0.0.1"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.helix:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
