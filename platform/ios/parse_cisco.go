package ios

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirikothe/gotextfsm"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

var (
	errNoData        = errors.New("no data parsed from output")
	errNoTemplate    = errors.New("no parser registered for command")
	leadingNameRegex = regexp.MustCompile(`^([A-Za-z]+)\s*(.*)$`)
	commandErrHints  = []string{
		"invalid input",
		"unknown command",
		"incomplete command",
		"ambiguous command",
		"unrecognized command",
		"invalid command",
		"syntax error",
		"cannot find command",
	}
)

// interface name prefixes as printed by IOS, mapped to the long form
var interfaceAbbreviations = map[string]string{
	"gi":  "GigabitEthernet",
	"gig": "GigabitEthernet",
	"te":  "TenGigabitEthernet",
	"ten": "TenGigabitEthernet",
	"fa":  "FastEthernet",
	"fas": "FastEthernet",
	"tw":  "TwoGigabitEthernet",
	"two": "TwoGigabitEthernet",
	"twe": "TwentyFiveGigE",
	"fi":  "FiveGigabitEthernet",
	"fiv": "FiveGigabitEthernet",
	"fo":  "FortyGigabitEthernet",
	"for": "FortyGigabitEthernet",
	"hu":  "HundredGigE",
	"hun": "HundredGigE",
	"ap":  "AppGigabitEthernet",
	"vl":  "Vlan",
	"po":  "Port-channel",
	"lo":  "Loopback",
	"tu":  "Tunnel",
}

var interfaceFullNames = []string{
	"GigabitEthernet",
	"TenGigabitEthernet",
	"FastEthernet",
	"TwoGigabitEthernet",
	"TwentyFiveGigE",
	"FiveGigabitEthernet",
	"FortyGigabitEthernet",
	"HundredGigE",
	"AppGigabitEthernet",
	"Vlan",
	"Port-channel",
	"Loopback",
	"Tunnel",
}

// NormalizeInterfaceName expands IOS short interface names ("Gi1/0/1",
// "Gig 1/0/9") to the long form used as tree keys.
func NormalizeInterfaceName(name string) string {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	for _, full := range interfaceFullNames {
		if strings.HasPrefix(lower, strings.ToLower(full)) {
			return full + strings.TrimSpace(trimmed[len(full):])
		}
	}
	match := leadingNameRegex.FindStringSubmatch(trimmed)
	if match == nil {
		return trimmed
	}
	if full, ok := interfaceAbbreviations[strings.ToLower(match[1])]; ok {
		return full + match[2]
	}
	return trimmed
}

// runTemplate parses output with a TextFSM template and returns one row per record
func runTemplate(template, output string) ([]entities.Row, error) {
	fsm := gotextfsm.TextFSM{}
	if err := fsm.ParseString(template); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	parser := gotextfsm.ParserOutput{}
	if err := parser.ParseTextString(output, fsm, true); err != nil {
		return nil, err
	}
	rows := make([]entities.Row, 0, len(parser.Dict))
	for _, record := range parser.Dict {
		row := make(entities.Row, len(record))
		for key, value := range record {
			row[key] = valueString(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func valueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, " ")
	case nil:
		return ""
	}
	return fmt.Sprint(value)
}

// setIfPresent copies non-empty row fields into node, renaming keys on the way
func setIfPresent(node entities.Tree, row entities.Row, fields map[string]string) {
	for from, to := range fields {
		if value := row[from]; value != "" {
			node[to] = value
		}
	}
}

func parseVersion(output string) (entities.Tree, error) {
	summary, err := runTemplate(templateShowVersion, output)
	if err != nil {
		return nil, err
	}
	members, err := runTemplate(templateShowVersionStack, output)
	if err != nil {
		return nil, err
	}

	version := entities.Tree{}
	if len(summary) > 0 {
		setIfPresent(version, summary[0], map[string]string{
			"version":      "version",
			"platform":     "platform",
			"image_id":     "image_id",
			"hostname":     "hostname",
			"uptime":       "uptime",
			"system_image": "system_image",
			"chassis":      "chassis",
			"chassis_sn":   "chassis_sn",
		})
	}
	if len(members) > 0 {
		stack := entities.Tree{}
		for _, row := range members {
			member := entities.Tree{}
			setIfPresent(member, row, map[string]string{
				"ports":    "ports",
				"model":    "model",
				"sw_ver":   "sw_ver",
				"sw_image": "sw_image",
				"mode":     "mode",
			})
			stack[row["switch_num"]] = member
		}
		version["switch_num"] = stack
	}
	if len(version) == 0 {
		return nil, errNoData
	}
	return entities.Tree{"version": version}, nil
}

func parsePlatform(output string) (entities.Tree, error) {
	rows, err := runTemplate(templateShowPlatform, output)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNoData
	}
	slots := entities.Tree{}
	for _, row := range rows {
		card := entities.Tree{"name": row["model"]}
		setIfPresent(card, row, map[string]string{
			"ports":       "ports",
			"serial":      "sn",
			"mac_address": "mac_address",
			"hw_ver":      "hw_ver",
			"sw_ver":      "sw_ver",
		})
		slots[row["slot"]] = entities.Tree{
			"rp": entities.Tree{row["model"]: card},
		}
	}
	return entities.Tree{"slot": slots}, nil
}

func parseIPInterfaceBrief(output string) (entities.Tree, error) {
	rows, err := runTemplate(templateShowIPInterfaceBrief, output)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNoData
	}
	interfaces := entities.Tree{}
	for _, row := range rows {
		interfaces[NormalizeInterfaceName(row["interface"])] = entities.Tree{
			"ip_address":      row["ip_address"],
			"interface_is_ok": row["ok"],
			"method":          row["method"],
			"status":          row["status"],
			"protocol":        row["protocol"],
		}
	}
	return entities.Tree{"interface": interfaces}, nil
}

func parseInterfacesDescription(output string) (entities.Tree, error) {
	rows, err := runTemplate(templateShowInterfacesDescription, output)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNoData
	}
	interfaces := entities.Tree{}
	for _, row := range rows {
		interfaces[NormalizeInterfaceName(row["interface"])] = entities.Tree{
			"status":      row["status"],
			"protocol":    row["protocol"],
			"description": strings.TrimRight(row["description"], "\r"),
		}
	}
	return entities.Tree{"interfaces": interfaces}, nil
}

// parseCDPNeighbors never fails on an empty table: zero neighbors is a valid answer
func parseCDPNeighbors(output string) (entities.Tree, error) {
	rows, err := runTemplate(templateShowCDPNeighbors, output)
	if err != nil {
		return nil, err
	}
	index := entities.Tree{}
	for i, row := range rows {
		index[fmt.Sprint(i+1)] = entities.Tree{
			"device_id":       row["device_id"],
			"local_interface": NormalizeInterfaceName(row["local_interface"]),
			"hold_time":       row["hold_time"],
			"capability":      row["capability"],
			"platform":        strings.TrimSpace(row["platform"]),
			"port_id":         NormalizeInterfaceName(row["port_id"]),
		}
	}
	return entities.Tree{"cdp": entities.Tree{"index": index}}, nil
}

func parsePowerSupplies(output string) (entities.Tree, error) {
	rows, err := runTemplate(templateShowEnvironmentPowerAll, output)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNoData
	}
	slots := entities.Tree{}
	for _, row := range rows {
		slots[row["sw"]] = entities.Tree{
			"type":    row["pid"],
			"serial":  row["serial"],
			"status":  row["status"],
			"sys_pwr": row["sys_pwr"],
			"poe_pwr": row["poe_pwr"],
			"watts":   row["watts"],
		}
	}
	return entities.Tree{"slot": slots}, nil
}

func isIOSCommandError(output string) bool {
	lower := strings.ToLower(output)
	for _, keyword := range commandErrHints {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
