package ios

// TextFSM templates for the Catalyst IOS-XE commands the checks rely on.
// Rules are unanchored at the end of line; value regexes are written so the
// last column is still captured whole.

const templateShowVersion = `Value version (\S+)
Value platform (.+?)
Value image_id (\S+)
Value hostname (\S+)
Value uptime (.+)
Value system_image (\S+)
Value chassis (\S+)
Value chassis_sn (\S+)

Start
  ^[Cc]isco IOS Software.*?,\s+${platform}\s+Software\s+\(${image_id}\),\s+Version\s+${version},
  ^${hostname}\s+uptime\s+is\s+${uptime}
  ^System\s+image\s+file\s+is\s+"${system_image}"
  ^[Cc]isco\s+${chassis}\s+\(.+\)\s+processor
  ^Processor\s+board\s+ID\s+${chassis_sn}
`

const templateShowVersionStack = `Value Required switch_num (\d+)
Value ports (\d+)
Value model (\S+)
Value sw_ver (\S+)
Value sw_image (\S+)
Value mode (\S+)

Start
  ^Switch\s+Ports\s+Model\s+SW\s+Version -> Stack

Stack
  ^\*?\s*${switch_num}\s+${ports}\s+${model}\s+${sw_ver}\s+${sw_image}\s+${mode}\s* -> Record
`

const templateShowPlatform = `Value Required slot (\d+)
Value ports (\d+)
Value model (\S+)
Value serial (\S+)
Value mac_address ([0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})
Value hw_ver (\S+)
Value sw_ver (\S+)

Start
  ^Switch\s+Ports\s+Model -> Inventory

Inventory
  ^\s*${slot}\s+${ports}\s+${model}\s+${serial}\s+${mac_address}\s+${hw_ver}\s+${sw_ver} -> Record
`

const templateShowIPInterfaceBrief = `Value interface (\S+)
Value ip_address (\S+)
Value ok (YES|NO)
Value method (\S+)
Value status (up|down|administratively down|deleted)
Value protocol (up|down)

Start
  ^${interface}\s+${ip_address}\s+${ok}\s+${method}\s+${status}\s+${protocol} -> Record
`

const templateShowInterfacesDescription = `Value interface (\S+)
Value status (up|down|admin down|deleted)
Value protocol (up|down)
Value description (.*)

Start
  ^${interface}\s+${status}\s+${protocol}\s*${description} -> Record
`

const templateShowCDPNeighbors = `Value Required device_id (\S+)
Value local_interface ([A-Za-z]+\s?[0-9][0-9/\.:]*)
Value hold_time (\d+)
Value capability ([A-Za-z](?:\s[A-Za-z])*)
Value platform (.+?)
Value port_id ([A-Za-z]+\s?[0-9][0-9/\.:]*)

Start
  ^Device\s+ID\s+Local -> Neighbors

Neighbors
  ^${device_id}\s+${local_interface}\s+${hold_time}\s+${capability}\s+${platform}\s+${port_id} -> Record
  ^\s+${local_interface}\s+${hold_time}\s+${capability}\s+${platform}\s+${port_id} -> Record
  ^Total\s+cdp
  ^${device_id}
`

const templateShowEnvironmentPowerAll = `Value Required sw (\d+[A-Z]?)
Value pid (\S+)
Value serial (\S+)
Value status (.+?)
Value sys_pwr (\S+)
Value poe_pwr (\S+)
Value watts (\d+)

Start
  ^${sw}\s+${pid}\s+${serial}\s+${status}\s+${sys_pwr}\s+${poe_pwr}\s+${watts} -> Record
`
