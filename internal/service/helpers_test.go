package service

import (
	"time"

	"github.com/dtroode/catalog-bot/internal/testutil"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	adminID  int64 = 1
	memberID int64 = 10
	otherID  int64 = 20
)

type fixture struct {
	docs     *testutil.DocumentStore
	codes    *testutil.AccessCodeStore
	clock    *testutil.Clock
	config   *ConfigStore
	groups   *Groups
	catalog  *Catalog
	access   *Access
	settings *Settings
}

func newFixture() *fixture {
	log := testutil.MakeNoopLogger()
	f := &fixture{
		docs:  testutil.NewDocumentStore(),
		codes: testutil.NewAccessCodeStore(),
		clock: testutil.NewClock(testStart),
	}
	f.config = NewConfigStore(f.docs, log)
	f.groups = NewGroups(f.config, log)
	f.catalog = NewCatalog(f.docs, f.groups, f.clock.Now, log)
	f.access = NewAccess(f.codes, f.config, []int64{adminID}, 24*time.Hour, 8, f.clock.Now, log)
	f.settings = NewSettings(f.config, log)
	return f
}
