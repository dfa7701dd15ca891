package session

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tebeka/selenium"
	selog "github.com/tebeka/selenium/log"

	"github.com/openedx/bok-choy/pkg/browserenv"
)

type mockLauncher struct {
	mock.Mock
}

func (m *mockLauncher) Launch(ctx context.Context, browser browserenv.Browser, args browserenv.SessionArgs) (Session, error) {
	ret := m.Called(ctx, browser, args)
	s, _ := ret.Get(0).(Session)
	return s, ret.Error(1)
}

type mockConnector struct {
	mock.Mock
}

func (m *mockConnector) Connect(ctx context.Context, args browserenv.SessionArgs) (Session, error) {
	ret := m.Called(ctx, args)
	s, _ := ret.Get(0).(Session)
	return s, ret.Error(1)
}

// bareSession supports neither screenshots nor logs.
type bareSession struct {
	mock.Mock
}

func (m *bareSession) Close() error {
	return m.Called().Error(0)
}

// fullSession supports screenshots and logs.
type fullSession struct {
	bareSession
}

func (m *fullSession) SaveScreenshot(path string) error {
	return m.Called(path).Error(0)
}

func (m *fullSession) Logs(category string) ([]LogEntry, error) {
	ret := m.Called(category)
	entries, _ := ret.Get(0).([]LogEntry)
	return entries, ret.Error(1)
}

type mockDriver struct {
	mock.Mock
}

func (m *mockDriver) Screenshot() ([]byte, error) {
	ret := m.Called()
	data, _ := ret.Get(0).([]byte)
	return data, ret.Error(1)
}

func (m *mockDriver) Log(typ selog.Type) ([]selog.Message, error) {
	ret := m.Called(typ)
	msgs, _ := ret.Get(0).([]selog.Message)
	return msgs, ret.Error(1)
}

func (m *mockDriver) Quit() error {
	return m.Called().Error(0)
}

// recordingRemote captures the arguments given to newRemote.
type recordingRemote struct {
	caps   selenium.Capabilities
	url    string
	driver remoteDriver
	err    error
}

func (r *recordingRemote) newRemote(caps selenium.Capabilities, url string) (remoteDriver, error) {
	r.caps = caps
	r.url = url
	if r.err != nil {
		return nil, r.err
	}
	return r.driver, nil
}
