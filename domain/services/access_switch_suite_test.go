package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/carlosrabelo/storecheck/domain/entities"
	"github.com/carlosrabelo/storecheck/domain/standards"
)

func newTestSuite(t *testing.T, exec *mockExecutor) *AccessSwitchSuite {
	t.Helper()
	table, err := standards.Default()
	if err != nil {
		t.Fatalf("standards.Default() error: %v", err)
	}
	return NewAccessSwitchSuite(NewDeviceFacade(exec), table)
}

func TestCheckOSVersion(t *testing.T) {
	tests := []struct {
		version string
		want    entities.Status
	}{
		{version: "17.3.5", want: entities.StatusPassed},
		{version: "16.12.4", want: entities.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			exec := newMockExecutor()
			tree := versionTree(healthyStack())
			tree["version"].(entities.Tree)["version"] = tt.version
			exec.setTree(cmdShowVersion, tree)

			outcome, err := newTestSuite(t, exec).CheckOSVersion()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want || outcome.Response != tt.version || outcome.Name != NameOSVersion {
				t.Errorf("CheckOSVersion() = %+v", outcome)
			}
		})
	}
}

func TestCheckNumberOfSwPerStack(t *testing.T) {
	tests := []struct {
		name     string
		modes    map[string]string
		want     entities.Status
		response string
	}{
		{name: "three members", modes: healthyStack(), want: entities.StatusPassed, response: "3"},
		{name: "two members", modes: map[string]string{"1": "INSTALL", "2": "INSTALL"}, want: entities.StatusFailed, response: "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.setTree(cmdShowVersion, versionTree(tt.modes))

			outcome, err := newTestSuite(t, exec).CheckNumberOfSwPerStack()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want || outcome.Response != tt.response {
				t.Errorf("CheckNumberOfSwPerStack() = %+v", outcome)
			}
		})
	}
}

func TestCheckModesOfSwStack(t *testing.T) {
	tests := []struct {
		name  string
		modes map[string]string
		want  entities.Status
	}{
		{name: "all install", modes: healthyStack(), want: entities.StatusPassed},
		{name: "one bundle", modes: map[string]string{"1": "INSTALL", "2": "BUNDLE"}, want: entities.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.setTree(cmdShowVersion, versionTree(tt.modes))

			outcome, err := newTestSuite(t, exec).CheckModesOfSwStack()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want {
				t.Errorf("CheckModesOfSwStack() status = %s, want %s", outcome.Status, tt.want)
			}
		})
	}
}

// A stack reporting no members must not pass vacuously.
func TestCheckModesOfSwStack_EmptyStackFails(t *testing.T) {
	exec := newMockExecutor()
	exec.setTree(cmdShowVersion, versionTree(map[string]string{}))

	outcome, err := newTestSuite(t, exec).CheckModesOfSwStack()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Passed() {
		t.Errorf("CheckModesOfSwStack() on an empty stack = %+v, want FAILED", outcome)
	}
}

func TestCheckDeviceInterfaceStatus(t *testing.T) {
	tests := []struct {
		name     string
		protocol string
		want     entities.Status
		response string
		color    string
	}{
		{name: "up up", protocol: "up", want: entities.StatusPassed, response: "Status: up  -   Protocol : up", color: entities.ColorBlack},
		{name: "up down", protocol: "down", want: entities.StatusFailed, response: "Status: up  -   Protocol : down", color: entities.ColorRed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.setTree(cmdShowIPInterfaceBrief, entities.Tree{"interface": entities.Tree{
				"GigabitEthernet1/0/1": entities.Tree{"status": "up", "protocol": tt.protocol},
			}})

			outcome, err := newTestSuite(t, exec).CheckDeviceInterfaceStatus("GigabitEthernet1/0/1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := entities.CheckOutcome{
				Status:   tt.want,
				Response: tt.response,
				Name:     "Device Interface GigabitEthernet1/0/1 Status Test.",
				Style:    entities.StyleHints{FontColor: tt.color},
			}
			if diff := cmp.Diff(want, outcome); diff != "" {
				t.Errorf("CheckDeviceInterfaceStatus() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckDeviceInterfaceStatus_NotFound(t *testing.T) {
	exec := newMockExecutor()
	exec.setTree(cmdShowIPInterfaceBrief, entities.Tree{"interface": entities.Tree{}})

	_, err := newTestSuite(t, exec).CheckDeviceInterfaceStatus("GigabitEthernet1/0/1")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCheckCDPNeighborNumber(t *testing.T) {
	neighbor := entities.Tree{"device_id": "SEP1", "local_interface": "GigabitEthernet1/0/23", "platform": "IP Phone"}
	tests := []struct {
		name    string
		entries []entities.Tree
		want    entities.Status
	}{
		{name: "three neighbors", entries: []entities.Tree{neighbor, neighbor, neighbor}, want: entities.StatusPassed},
		{name: "two neighbors", entries: []entities.Tree{neighbor, neighbor}, want: entities.StatusFailed},
		{name: "no neighbors", want: entities.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.setTree(cmdShowCDPNeighbors, cdpTree(tt.entries...))

			outcome, err := newTestSuite(t, exec).CheckCDPNeighborNumber()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want {
				t.Errorf("CheckCDPNeighborNumber() = %+v, want %s", outcome, tt.want)
			}
		})
	}
}

func TestCheckCDPCellularRouterInterface(t *testing.T) {
	tests := []struct {
		name     string
		entries  []entities.Tree
		want     entities.Status
		response string
	}{
		{
			name: "C1111 on POLR port",
			entries: []entities.Tree{
				{"device_id": "SEP1", "local_interface": "GigabitEthernet1/0/23", "platform": "IP Phone"},
				{"device_id": "NKE1234R01", "local_interface": "GigabitEthernet1/0/9", "platform": "C1111-8PLTEEA"},
			},
			want:     entities.StatusPassed,
			response: "GigabitEthernet1/0/9 is connected to Cellular Router",
		},
		{
			name:     "router on another port",
			entries:  []entities.Tree{{"device_id": "NKE1234R01", "local_interface": "GigabitEthernet1/0/10", "platform": "C819G-4G"}},
			want:     entities.StatusFailed,
			response: "GigabitEthernet1/0/9 is not connected to Cellular Router",
		},
		{
			name:     "other platform on POLR port",
			entries:  []entities.Tree{{"device_id": "AP1", "local_interface": "GigabitEthernet1/0/9", "platform": "AIR-AP2802I"}},
			want:     entities.StatusFailed,
			response: "GigabitEthernet1/0/9 is not connected to Cellular Router",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.setTree(cmdShowCDPNeighbors, cdpTree(tt.entries...))

			outcome, err := newTestSuite(t, exec).CheckCDPCellularRouterInterface()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want || outcome.Response != tt.response || outcome.Name != NameCellularRouter {
				t.Errorf("CheckCDPCellularRouterInterface() = %+v", outcome)
			}
		})
	}
}

func TestCheckPlatform(t *testing.T) {
	slot := func(model string) entities.Tree {
		return entities.Tree{"rp": entities.Tree{model: entities.Tree{}}}
	}
	tests := []struct {
		name     string
		slots    entities.Tree
		want     entities.Status
		response string
	}{
		{name: "9300 first", slots: entities.Tree{"1": slot("C9300-48U"), "2": slot("WS-C3650")}, want: entities.StatusPassed, response: "[[C9300-48U] [WS-C3650]]"},
		{name: "only first slot counts", slots: entities.Tree{"1": slot("WS-C3650"), "2": slot("C9300-48U")}, want: entities.StatusFailed, response: "[[WS-C3650] [C9300-48U]]"},
		{name: "no slots", slots: entities.Tree{}, want: entities.StatusFailed, response: "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.setTree(cmdShowPlatform, entities.Tree{"slot": tt.slots})

			outcome, err := newTestSuite(t, exec).CheckPlatform()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want || outcome.Response != tt.response {
				t.Errorf("CheckPlatform() = %+v", outcome)
			}
		})
	}
}

func TestCheckInterfaceDescription(t *testing.T) {
	table := standards.MustDefault()
	for iface, expected := range table.Descriptions() {
		exec := newMockExecutor()
		exec.setTree(cmdShowInterfacesDesc, entities.Tree{"interfaces": entities.Tree{
			iface: entities.Tree{"status": "up", "protocol": "up", "description": expected},
		}})
		suite := NewAccessSwitchSuite(NewDeviceFacade(exec), table)

		outcome, err := suite.CheckInterfaceDescription(iface)
		if err != nil {
			t.Fatalf("CheckInterfaceDescription(%s) error: %v", iface, err)
		}
		if !outcome.Passed() || outcome.Response != expected || outcome.Name != iface+" description test" {
			t.Errorf("CheckInterfaceDescription(%s) = %+v", iface, outcome)
		}
	}
}

func TestCheckInterfaceDescription_Verbatim(t *testing.T) {
	tests := []struct {
		name string
		live string
		want entities.Status
	}{
		{name: "exact with trailing space", live: "PoE ", want: entities.StatusPassed},
		{name: "trailing space missing", live: "PoE", want: entities.StatusFailed},
		{name: "case differs", live: "poe ", want: entities.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.setTree(cmdShowInterfacesDesc, entities.Tree{"interfaces": entities.Tree{
				"GigabitEthernet1/0/23": entities.Tree{"description": tt.live},
			}})

			outcome, err := newTestSuite(t, exec).CheckInterfaceDescription("GigabitEthernet1/0/23")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want || outcome.Response != tt.live {
				t.Errorf("CheckInterfaceDescription() = %+v", outcome)
			}
		})
	}
}

func TestCheckInterfaceDescription_Errors(t *testing.T) {
	exec := newMockExecutor()
	suite := newTestSuite(t, exec)

	if _, err := suite.CheckInterfaceDescription(""); !errors.Is(err, entities.ErrMissingArgument) {
		t.Errorf("empty interface error = %v, want ErrMissingArgument", err)
	}
	if _, err := suite.CheckInterfaceDescription("GigabitEthernet4/0/1"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("unknown interface error = %v, want ErrNotFound", err)
	}
	if len(exec.executions) != 0 {
		t.Errorf("argument errors reached the device: %v", exec.executions)
	}
}

func TestCheckAAAConfiguration(t *testing.T) {
	tests := []struct {
		prompt   string
		want     entities.Status
		response string
		wantErr  error
	}{
		{prompt: "NKE1234X01#", want: entities.StatusPassed, response: "true"},
		{prompt: "NKE1234X01>", want: entities.StatusFailed, response: "false"},
		{prompt: "NKE1234X01$", wantErr: entities.ErrUnexpectedPrompt},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			exec := newMockExecutor()
			exec.prompt = tt.prompt

			outcome, err := newTestSuite(t, exec).CheckAAAConfiguration()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want || outcome.Response != tt.response {
				t.Errorf("CheckAAAConfiguration() = %+v", outcome)
			}
		})
	}
}

func TestCheckPSUStatus(t *testing.T) {
	firstOnly, err := standards.Parse(psuFirstStandards(t))
	if err != nil {
		t.Fatalf("standards.Parse() error: %v", err)
	}

	tests := []struct {
		name     string
		table    *standards.Table
		rows     []entities.Row
		want     entities.Status
		response string
	}{
		{
			name:     "all good",
			rows:     []entities.Row{psuRow("1A", "OK", "Good"), psuRow("2A", "OK", "Good"), psuRow("3A", "OK", "Good")},
			want:     entities.StatusPassed,
			response: "All the PSU statuses are OK",
		},
		{
			name:     "last supply bad",
			rows:     []entities.Row{psuRow("1A", "OK", "Good"), psuRow("2A", "OK", "Good"), psuRow("3A", "No Input Power", "Bad")},
			want:     entities.StatusFailed,
			response: "PSU statuses are NOT OK",
		},
		{
			name:     "first policy ignores later supplies",
			table:    firstOnly,
			rows:     []entities.Row{psuRow("1A", "OK", "Good"), psuRow("3A", "No Input Power", "Bad")},
			want:     entities.StatusPassed,
			response: "All the PSU statuses are OK",
		},
		{
			name:     "first policy first supply bad",
			table:    firstOnly,
			rows:     []entities.Row{psuRow("1A", "OK", "Bad"), psuRow("2A", "OK", "Good")},
			want:     entities.StatusFailed,
			response: "PSU statuses are NOT OK",
		},
		{
			name:     "no supplies",
			want:     entities.StatusFailed,
			response: "No PSU entries reported",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.setRows(cmdShowEnvironmentPowerAll, tt.rows)
			table := tt.table
			if table == nil {
				table = standards.MustDefault()
			}

			outcome, err := NewAccessSwitchSuite(NewDeviceFacade(exec), table).CheckPSUStatus()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want || outcome.Response != tt.response {
				t.Errorf("CheckPSUStatus() = %+v", outcome)
			}
		})
	}
}

func psuFirstStandards(t *testing.T) []byte {
	t.Helper()
	doc := `os_version: "17.3.5"
stack_members: 3
stack_mode: INSTALL
platform_models: [C9300-48U]
cdp_min_neighbors: 3
psu:
  status: OK
  sys_pwr: Good
  evaluation: first
`
	return []byte(doc)
}

func TestCheckNumberOfPSU(t *testing.T) {
	tests := []struct {
		name     string
		rows     []entities.Row
		want     entities.Status
		response string
	}{
		{name: "one per member", rows: []entities.Row{psuRow("1A", "OK", "Good"), psuRow("2A", "OK", "Good"), psuRow("3A", "OK", "Good")}, want: entities.StatusPassed, response: "Active PSU number is 3"},
		{name: "missing supply", rows: []entities.Row{psuRow("1A", "OK", "Good"), psuRow("2A", "OK", "Good")}, want: entities.StatusFailed, response: "Active PSU number is 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.setTree(cmdShowVersion, versionTree(healthyStack()))
			exec.setRows(cmdShowEnvironmentPowerAll, tt.rows)

			outcome, err := newTestSuite(t, exec).CheckNumberOfPSU()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != tt.want || outcome.Response != tt.response {
				t.Errorf("CheckNumberOfPSU() = %+v", outcome)
			}
		})
	}
}

func TestChecksAreIdempotent(t *testing.T) {
	exec := healthyDevice()
	suite := newTestSuite(t, exec)

	for _, check := range suite.Plan() {
		first, err := check.Run()
		if err != nil {
			t.Fatalf("%s: %v", check.Title, err)
		}
		second, err := check.Run()
		if err != nil {
			t.Fatalf("%s: %v", check.Title, err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%s not idempotent (-first +second):\n%s", check.Title, diff)
		}
	}
}

func TestPlan(t *testing.T) {
	suite := newTestSuite(t, healthyDevice())
	plan := suite.Plan()

	table := standards.MustDefault()
	want := 6 + len(table.StatusInterfaces()) + len(table.DescriptionInterfaces()) + 3
	if len(plan) != want {
		t.Fatalf("Plan() has %d checks, want %d", len(plan), want)
	}
	if plan[0].Title != "System OS Version Test" || plan[len(plan)-1].Title != NameNumberOfPSU {
		t.Errorf("unexpected plan order: first %q, last %q", plan[0].Title, plan[len(plan)-1].Title)
	}
	if !strings.HasSuffix(plan[6].Title, table.StatusInterfaces()[0]) {
		t.Errorf("plan[6] = %q, want the first status check", plan[6].Title)
	}

	for _, check := range plan {
		outcome, err := check.Run()
		if err != nil {
			t.Fatalf("%s: %v", check.Title, err)
		}
		if !outcome.Passed() {
			t.Errorf("%s failed on a healthy device: %+v", check.Title, outcome)
		}
	}
}

// healthyDevice answers every command of the plan the way a compliant stack does
func healthyDevice() *mockExecutor {
	table := standards.MustDefault()
	exec := newMockExecutor()
	exec.setTree(cmdShowVersion, versionTree(healthyStack()))
	exec.setTree(cmdShowPlatform, entities.Tree{"slot": entities.Tree{
		"1": entities.Tree{"rp": entities.Tree{"C9300-48U": entities.Tree{}}},
		"2": entities.Tree{"rp": entities.Tree{"C9300-48U": entities.Tree{}}},
		"3": entities.Tree{"rp": entities.Tree{"C9300-48U": entities.Tree{}}},
	}})
	exec.setTree(cmdShowCDPNeighbors, cdpTree(
		entities.Tree{"device_id": "NKE1234R01", "local_interface": "GigabitEthernet1/0/9", "platform": "C1111-8PLTEEA"},
		entities.Tree{"device_id": "NKE1234V01", "local_interface": "GigabitEthernet1/0/1", "platform": "VeloCloud"},
		entities.Tree{"device_id": "NKE1234V02", "local_interface": "GigabitEthernet2/0/1", "platform": "VeloCloud"},
	))

	brief := entities.Tree{}
	for _, iface := range table.StatusInterfaces() {
		brief[iface] = entities.Tree{"status": "up", "protocol": "up"}
	}
	exec.setTree(cmdShowIPInterfaceBrief, entities.Tree{"interface": brief})

	descriptions := entities.Tree{}
	for iface, desc := range table.Descriptions() {
		descriptions[iface] = entities.Tree{"status": "up", "protocol": "up", "description": desc}
	}
	exec.setTree(cmdShowInterfacesDesc, entities.Tree{"interfaces": descriptions})

	exec.setRows(cmdShowEnvironmentPowerAll, []entities.Row{
		psuRow("1A", "OK", "Good"), psuRow("2A", "OK", "Good"), psuRow("3A", "OK", "Good"),
	})
	return exec
}
