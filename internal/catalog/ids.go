package catalog

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	projectIDPrefix = "pj-"
	clientIDPrefix  = "cl-"
	reportIDPrefix  = "rp-"
	inviteIDPrefix  = "inv-"
	memberIDPrefix  = "usr-"
)

// idGenerator can be replaced in tests to control ID generation.
var idGenerator = randomID

func randomID(prefix string, n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(bytes), nil
}

func generateProjectID() (string, error) { return idGenerator(projectIDPrefix, 4) }

func generateClientID() (string, error) { return idGenerator(clientIDPrefix, 4) }

func generateReportID() (string, error) { return idGenerator(reportIDPrefix, 4) }

func generateInviteID() (string, error) { return idGenerator(inviteIDPrefix, 4) }

func generateMemberID() (string, error) { return idGenerator(memberIDPrefix, 4) }

// generateSecret returns a 32 character client secret.
func generateSecret() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
