package audio

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"simplemenu/internal/errors"
	"simplemenu/internal/item"
	"simplemenu/internal/menu"
	"simplemenu/internal/token"
)

// withSnapshot wires a pw-dump snapshot as the item's shared data. Items of
// the same kind resolve their texts from one dump per navigation step.
func withSnapshot(b *item.Base) {
	runner := b.Deps.Runner
	b.SharedInit = func(ctx context.Context) (any, error) {
		return Dump(ctx, runner)
	}
}

func snapshot(ctx context.Context, b *item.Base) (*Snapshot, error) {
	value, err := b.SharedData(ctx)
	if err != nil {
		return nil, err
	}
	return value.(*Snapshot), nil
}

func nodeKind(node *Node) string {
	if node.MediaClass == ClassAudioSource {
		return "source"
	}
	return "sink"
}

// RootMenu is the audio overview menu: default sink and source in its entry
// line, one submenu per card, endpoint and stream.
type RootMenu struct {
	menu.Menu
}

// NewMenu constructs the audio root menu.
func NewMenu(deps *item.Deps, value string) (*RootMenu, error) {
	base, err := menu.NewBase("audiomenu", deps, value)
	if err != nil {
		return nil, err
	}
	m := &RootMenu{Menu: base}
	withSnapshot(&m.Base)
	m.SetTitle = func(ctx context.Context) error {
		m.Title = "Audio"
		return nil
	}
	m.SetItems = m.setItems
	return m, nil
}

// ProduceText summarizes the default sink and source with their volumes and
// mute states.
func (m *RootMenu) ProduceText(ctx context.Context) error {
	m.Texts.Type = token.TypeMenu
	m.Texts.Category = "Audio"

	pw, err := snapshot(ctx, &m.Base)
	if err != nil {
		return err
	}
	sink := pw.DefaultSink()
	source := pw.DefaultSource()
	if sink == nil || source == nil {
		m.Texts.Text = ""
		return nil
	}

	if sink.Mute {
		m.Texts.Status = "<volume-muted>"
	} else {
		m.Texts.Status = "<volume-max>"
	}
	sourceIcon := "<microphone>"
	if source.Mute {
		sourceIcon = "<microphone-muted>"
	}
	m.Texts.Text = fmt.Sprintf("%s(%d%%) / %s %s(%d%%)",
		sink.Description, Volume(sink.Volumes),
		sourceIcon, source.Description, Volume(source.Volumes))
	return nil
}

func (m *RootMenu) setItems(ctx context.Context) error {
	pw, err := snapshot(ctx, &m.Base)
	if err != nil {
		return err
	}
	ignore := m.Deps.Config.MenuSoundIgnoreNodes

	var ids []int
	for _, device := range pw.Devices {
		ids = append(ids, device.ID)
	}
	for _, node := range pw.Sinks() {
		if !ignore[node.Description] {
			ids = append(ids, node.ID)
		}
	}
	for _, node := range pw.Sources() {
		if !ignore[node.Description] {
			ids = append(ids, node.ID)
		}
	}
	for _, class := range []string{ClassStreamOutputAudio, ClassStreamInputAudio} {
		for _, stream := range pw.Streams {
			if stream.MediaClass == class && !ignore[stream.Name()] {
				ids = append(ids, stream.ID)
			}
		}
	}

	m.Entries = m.Entries[:0]
	for _, id := range ids {
		value := strconv.Itoa(id)
		m.Entries = append(m.Entries, menu.Entry{Make: func() (item.Item, error) {
			return newNodeMenu(m.Deps, value)
		}})
	}
	return nil
}

// NodeMenu is the submenu of one graph object: a card, endpoint or stream,
// identified by its graph id.
type NodeMenu struct {
	menu.Menu
}

func newNodeMenu(deps *item.Deps, value string) (*NodeMenu, error) {
	base, err := menu.NewBase("audio_node", deps, value)
	if err != nil {
		return nil, err
	}
	m := &NodeMenu{Menu: base}
	withSnapshot(&m.Base)
	m.SetItems = m.setItems
	return m, nil
}

func (m *NodeMenu) nodeID() (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(m.Value))
	if err != nil {
		return 0, errors.DecodeError(m.Raw, "audio node wants a numeric graph id")
	}
	return id, nil
}

func (m *NodeMenu) ProduceText(ctx context.Context) error {
	pw, err := snapshot(ctx, &m.Base)
	if err != nil {
		return err
	}
	id, err := m.nodeID()
	if err != nil {
		return err
	}
	m.Texts.Type = token.TypeMenu

	var name string
	switch {
	case pw.DeviceByID(id) != nil:
		device := pw.DeviceByID(id)
		m.Texts.Category = "Card"
		m.Texts.Text = device.Description
		name = device.Description

	case pw.NodeByID(id) != nil:
		node := pw.NodeByID(id)
		if nodeKind(node) == "sink" {
			m.Texts.Status = "<speaker>"
			if node.Mute {
				m.Texts.Status = "<speaker-muted>"
			}
			if sink := pw.DefaultSink(); sink != nil && sink.ID == node.ID {
				m.Texts.Status = "<ok> " + m.Texts.Status
			}
			m.Texts.Category = "Output"
		} else {
			m.Texts.Status = "<microphone>"
			if node.Mute {
				m.Texts.Status = "<microphone-muted>"
			}
			if source := pw.DefaultSource(); source != nil && source.ID == node.ID {
				m.Texts.Status = "<ok> " + m.Texts.Status
			}
			m.Texts.Category = "Input"
		}
		m.Texts.Text = fmt.Sprintf("(%3d%%) %s", Volume(node.Volumes), node.Description)
		name = node.Description

	case pw.StreamByID(id) != nil:
		stream := pw.StreamByID(id)
		if stream.MediaClass == ClassStreamInputAudio {
			m.Texts.Status = "<recording>"
			if stream.Mute {
				m.Texts.Status = "<microphone-muted> <recording>"
			}
			m.Texts.Category = "Recording"
		} else {
			m.Texts.Status = "<playing>"
			if stream.Mute {
				m.Texts.Status = "<volume-muted> <playing>"
			}
			m.Texts.Category = "Playback"
		}
		m.Texts.Text = fmt.Sprintf("(%3d%%) %s", Volume(stream.Volumes), stream.Name())
		name = stream.Name()

	default:
		// The object disappeared between dump and redraw.
		m.Texts.Text = ""
		return nil
	}

	m.Title = fmt.Sprintf("Audio/%s/<%s>", m.Texts.Category, name)
	return nil
}

func (m *NodeMenu) setItems(ctx context.Context) error {
	pw, err := snapshot(ctx, &m.Base)
	if err != nil {
		return err
	}
	id, err := m.nodeID()
	if err != nil {
		return err
	}
	delimiter := m.Delimiter()
	m.Entries = m.Entries[:0]

	change := func(value string) menu.Entry {
		return menu.Entry{Make: func() (item.Item, error) {
			return newNodeChange(m.Deps, value)
		}}
	}

	switch {
	case pw.DeviceByID(id) != nil:
		for _, action := range []string{"profiles", "ports"} {
			value := action + delimiter + m.Value
			m.Entries = append(m.Entries, menu.Entry{Make: func() (item.Item, error) {
				return newDeviceMenu(m.Deps, value)
			}})
		}

	case pw.NodeByID(id) != nil:
		for _, action := range []string{"togglemute", "volume+", "volume-", "setdefault"} {
			m.Entries = append(m.Entries, change(action+delimiter+m.Value))
		}

	case pw.StreamByID(id) != nil:
		stream := pw.StreamByID(id)
		for _, action := range []string{"togglemute", "volume+", "volume-"} {
			m.Entries = append(m.Entries, change(action+delimiter+m.Value))
		}
		destinations := pw.Sinks()
		if stream.MediaClass == ClassStreamInputAudio {
			destinations = pw.Sources()
		}
		for _, destination := range destinations {
			value := "move" + delimiter + m.Value + delimiter + strconv.Itoa(destination.ID)
			m.Entries = append(m.Entries, change(value))
		}
	}
	return nil
}

// DeviceMenu lists a card's selectable profiles or ports. The value is
// "profiles::<id>" or "ports::<id>".
type DeviceMenu struct {
	menu.Menu
}

func newDeviceMenu(deps *item.Deps, value string) (*DeviceMenu, error) {
	base, err := menu.NewBase("audio_device", deps, value)
	if err != nil {
		return nil, err
	}
	m := &DeviceMenu{Menu: base}
	withSnapshot(&m.Base)
	m.SetItems = m.setItems
	return m, nil
}

func (m *DeviceMenu) parse() (action string, deviceID int, err error) {
	fields := strings.Split(m.Value, m.Delimiter())
	if len(fields) != 2 {
		return "", 0, errors.DecodeError(m.Raw, "device menu wants action and device id")
	}
	deviceID, err = strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return "", 0, errors.DecodeError(m.Raw, "device menu wants a numeric device id")
	}
	return fields[0], deviceID, nil
}

func (m *DeviceMenu) ProduceText(ctx context.Context) error {
	pw, err := snapshot(ctx, &m.Base)
	if err != nil {
		return err
	}
	action, deviceID, err := m.parse()
	if err != nil {
		return err
	}
	m.Texts.Type = token.TypeMenu

	device := pw.DeviceByID(deviceID)
	if device == nil {
		m.Texts.Text = ""
		return nil
	}
	switch action {
	case "profiles":
		m.Texts.Category = "Profile"
		m.Texts.Text = device.Profile.Description
		m.Title = fmt.Sprintf("Audio/Card/<%s>/Profiles", device.Description)
	case "ports":
		m.Texts.Category = "Port"
		m.Texts.Text = device.Route.Description
		m.Title = fmt.Sprintf("Audio/Card/<%s>/Ports", device.Description)
	}
	return nil
}

func (m *DeviceMenu) setItems(ctx context.Context) error {
	pw, err := snapshot(ctx, &m.Base)
	if err != nil {
		return err
	}
	action, deviceID, err := m.parse()
	if err != nil {
		return err
	}
	m.Entries = m.Entries[:0]

	device := pw.DeviceByID(deviceID)
	if device == nil {
		return nil
	}

	current := device.Profile
	candidates := device.Profiles
	if action == "ports" {
		current = device.Route
		candidates = device.Routes
	}

	delimiter := m.Delimiter()
	currentLine := strings.Join([]string{"notification", "", "", "<ok>", current.Description}, delimiter)
	m.Entries = append(m.Entries, menu.Entry{Variant: "item", Value: currentLine})
	for _, candidate := range candidates {
		if candidate.Available == "no" || candidate.Index == current.Index {
			continue
		}
		value := strings.Join([]string{action, strconv.Itoa(device.ID), strconv.Itoa(candidate.Index)}, delimiter)
		m.Entries = append(m.Entries, menu.Entry{Make: func() (item.Item, error) {
			return newDeviceChange(m.Deps, value), nil
		}})
	}
	return nil
}

// DeviceChange activates one device profile or port. The value is
// "profiles::<device-id>::<index>" or "ports::<device-id>::<index>".
type DeviceChange struct {
	item.Base
}

func newDeviceChange(deps *item.Deps, value string) *DeviceChange {
	c := &DeviceChange{Base: item.NewBase("audio_device_change", deps, value)}
	withSnapshot(&c.Base)
	return c
}

func (c *DeviceChange) parse() (action string, deviceID, index int, err error) {
	fields := strings.Split(c.Value, c.Delimiter())
	if len(fields) != 3 {
		return "", 0, 0, errors.DecodeError(c.Raw, "device change wants action, device id and index")
	}
	if deviceID, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
		return "", 0, 0, errors.DecodeError(c.Raw, "device change wants a numeric device id")
	}
	if index, err = strconv.Atoi(strings.TrimSpace(fields[2])); err != nil {
		return "", 0, 0, errors.DecodeError(c.Raw, "device change wants a numeric index")
	}
	return fields[0], deviceID, index, nil
}

func (c *DeviceChange) ProduceText(ctx context.Context) error {
	pw, err := snapshot(ctx, &c.Base)
	if err != nil {
		return err
	}
	action, deviceID, index, err := c.parse()
	if err != nil {
		return err
	}
	c.Texts.Type = token.TypeAction

	device := pw.DeviceByID(deviceID)
	if device == nil {
		c.Texts.Text = ""
		return nil
	}
	candidates := device.Profiles
	if action == "ports" {
		candidates = device.Routes
	}
	for _, candidate := range candidates {
		if candidate.Index == index {
			c.Texts.Text = fmt.Sprintf("%s (available %s)", candidate.Description, candidate.Available)
			return nil
		}
	}
	c.Texts.Text = ""
	return nil
}

func (c *DeviceChange) Execute(ctx context.Context) error {
	pw, err := snapshot(ctx, &c.Base)
	if err != nil {
		return err
	}
	action, deviceID, index, err := c.parse()
	if err != nil {
		return err
	}
	if action == "ports" {
		return pw.SetDeviceRoute(ctx, deviceID, index)
	}
	return pw.SetDeviceProfile(ctx, deviceID, index)
}

// NodeChange performs one action on a node: set default, volume step, mute
// toggle, or moving a stream to another endpoint. Values:
//
//	setdefault::<node-id>
//	volume+::<node-id>
//	volume-::<node-id>
//	togglemute::<node-id>
//	move::<stream-id>::<destination-id>
type NodeChange struct {
	item.Base
}

func newNodeChange(deps *item.Deps, value string) (*NodeChange, error) {
	c := &NodeChange{Base: item.NewBase("audio_node_change", deps, value)}
	withSnapshot(&c.Base)
	return c, nil
}

func (c *NodeChange) parse() (action string, nodeID, destinationID int, err error) {
	fields := strings.Split(c.Value, c.Delimiter())
	if len(fields) != 2 && len(fields) != 3 {
		return "", 0, 0, errors.DecodeError(c.Raw, "node change wants action, node id and optional destination")
	}
	if nodeID, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
		return "", 0, 0, errors.DecodeError(c.Raw, "node change wants a numeric node id")
	}
	if len(fields) == 3 {
		if destinationID, err = strconv.Atoi(strings.TrimSpace(fields[2])); err != nil {
			return "", 0, 0, errors.DecodeError(c.Raw, "node change wants a numeric destination id")
		}
	}
	return fields[0], nodeID, destinationID, nil
}

func (c *NodeChange) isDefault(pw *Snapshot, node *Node) bool {
	if nodeKind(node) == "sink" {
		sink := pw.DefaultSink()
		return sink != nil && sink.ID == node.ID
	}
	source := pw.DefaultSource()
	return source != nil && source.ID == node.ID
}

func (c *NodeChange) ProduceText(ctx context.Context) error {
	pw, err := snapshot(ctx, &c.Base)
	if err != nil {
		return err
	}
	action, nodeID, destinationID, err := c.parse()
	if err != nil {
		return err
	}

	switch action {
	case "setdefault":
		node := pw.NodeByID(nodeID)
		if node == nil {
			c.Texts.Text = ""
			return nil
		}
		kind := nodeKind(node)
		if c.isDefault(pw, node) {
			c.Texts.Type = token.TypeNotification
			c.Texts.Status = "<ok>"
			c.Texts.Text = "already default " + kind
		} else {
			c.Texts.Type = token.TypeAction
			c.Texts.Status = "<configuration>"
			c.Texts.Text = "set default " + kind
		}

	case "volume+", "volume-":
		volumes := c.nodeVolumes(pw, nodeID)
		if volumes == nil {
			c.Texts.Text = ""
			return nil
		}
		arrow := "<upper>"
		if action == "volume-" {
			arrow = "<lower>"
		}
		c.Texts.Type = token.TypeAction
		c.Texts.Status = fmt.Sprintf("%d%% %s", Volume(volumes), arrow)
		c.Texts.Text = "volume"

	case "togglemute":
		muted, ok := c.nodeMute(pw, nodeID)
		if !ok {
			c.Texts.Text = ""
			return nil
		}
		c.Texts.Type = token.TypeAction
		c.Texts.Text = "toggle (un)mute"
		if muted {
			c.Texts.Status = "<volume-muted>"
		} else {
			c.Texts.Status = "<volume-max>"
		}

	case "move":
		stream := pw.StreamByID(nodeID)
		destination := pw.NodeByID(destinationID)
		if stream == nil || destination == nil {
			c.Texts.Text = ""
			return nil
		}
		if stream.MediaClass == ClassStreamInputAudio {
			current := pw.StreamTarget(stream.ID, "source")
			if current != nil && current.ID == destination.ID {
				c.Texts.Type = token.TypeNotification
				c.Texts.Status = "<ok>"
				c.Texts.Text = "recording from: " + destination.Description
			} else {
				c.Texts.Type = token.TypeAction
				c.Texts.Status = "<change>"
				c.Texts.Text = "move to input:  " + destination.Description
			}
		} else {
			current := pw.StreamTarget(stream.ID, "sink")
			if current != nil && current.ID == destination.ID {
				c.Texts.Type = token.TypeNotification
				c.Texts.Status = "<ok>"
				c.Texts.Text = "playing on: " + destination.Description
			} else {
				c.Texts.Type = token.TypeAction
				c.Texts.Status = "<change>"
				c.Texts.Text = "move to:    " + destination.Description
			}
		}
	}
	return nil
}

// nodeVolumes reads volumes from an endpoint or a stream.
func (c *NodeChange) nodeVolumes(pw *Snapshot, id int) []float64 {
	if node := pw.NodeByID(id); node != nil {
		return node.Volumes
	}
	if stream := pw.StreamByID(id); stream != nil {
		return stream.Volumes
	}
	return nil
}

func (c *NodeChange) nodeMute(pw *Snapshot, id int) (muted, ok bool) {
	if node := pw.NodeByID(id); node != nil {
		return node.Mute, true
	}
	if stream := pw.StreamByID(id); stream != nil {
		return stream.Mute, true
	}
	return false, false
}

func (c *NodeChange) Execute(ctx context.Context) error {
	pw, err := snapshot(ctx, &c.Base)
	if err != nil {
		return err
	}
	action, nodeID, destinationID, err := c.parse()
	if err != nil {
		return err
	}

	switch action {
	case "setdefault":
		node := pw.NodeByID(nodeID)
		if node == nil || c.isDefault(pw, node) {
			return nil
		}
		return pw.SetDefault(ctx, nodeID)
	case "volume+":
		return pw.VolumeModify(ctx, nodeID, 5)
	case "volume-":
		return pw.VolumeModify(ctx, nodeID, -5)
	case "togglemute":
		return pw.MuteToggle(ctx, nodeID)
	case "move":
		return pw.MoveStream(ctx, nodeID, destinationID)
	}
	return nil
}
