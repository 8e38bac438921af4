// Package audio exposes the PipeWire graph as navigable menus: cards with
// profile and port selection, sinks, sources and application streams with
// volume, mute, default and routing actions.
package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"simplemenu/internal/errors"
	exe "simplemenu/internal/exec"
	"simplemenu/internal/logging"
)

// PipeWire object types and media classes as they appear in pw-dump output.
const (
	typeDevice   = "PipeWire:Interface:Device"
	typeMetadata = "PipeWire:Interface:Metadata"
	typeNode     = "PipeWire:Interface:Node"
	typeLink     = "PipeWire:Interface:Link"
	typePort     = "PipeWire:Interface:Port"

	ClassAudioDevice       = "Audio/Device"
	ClassAudioSink         = "Audio/Sink"
	ClassAudioSource       = "Audio/Source"
	ClassStreamInputAudio  = "Stream/Input/Audio"
	ClassStreamOutputAudio = "Stream/Output/Audio"
)

// dumpRetries bounds the pw-dump attempts: right after a graph modification
// pw-dump occasionally emits invalid JSON, and a retry settles it.
const dumpRetries = 10

type pwProps struct {
	MediaClass               string          `json:"media.class"`
	ObjectSerial             int             `json:"object.serial"`
	NodeID                   int             `json:"node.id"`
	PortDirection            string          `json:"port.direction"`
	NodeName                 string          `json:"node.name"`
	NodeDescription          string          `json:"node.description"`
	DeviceDescription        string          `json:"device.description"`
	DeviceFormFactor         string          `json:"device.form-factor"`
	DeviceProfileDescription string          `json:"device.profile.description"`
	MediaName                string          `json:"media.name"`
	ApplicationName          string          `json:"application.name"`
	StreamIsLive             bool            `json:"stream.is-live"`
	TargetObject             json.RawMessage `json:"target.object"`
	LinkInputNode            int             `json:"link.input.node"`
	LinkOutputNode           int             `json:"link.output.node"`
}

// Profile describes one device profile or route.
type Profile struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Available   string `json:"available"`
}

type pwNodeProps struct {
	ChannelVolumes []float64 `json:"channelVolumes"`
	Mute           bool      `json:"mute"`
}

type pwParams struct {
	Profile     []Profile     `json:"Profile"`
	EnumProfile []Profile     `json:"EnumProfile"`
	Route       []Profile     `json:"Route"`
	EnumRoute   []Profile     `json:"EnumRoute"`
	Props       []pwNodeProps `json:"Props"`
}

type pwInfo struct {
	State        string   `json:"state"`
	Props        pwProps  `json:"props"`
	Params       pwParams `json:"params"`
	OutputPortID int      `json:"output-port-id"`
	InputPortID  int      `json:"input-port-id"`
	OutputNodeID int      `json:"output-node-id"`
	InputNodeID  int      `json:"input-node-id"`
}

type pwMetadataEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type pwObject struct {
	ID    int     `json:"id"`
	Type  string  `json:"type"`
	Info  *pwInfo `json:"info"`
	Props struct {
		MetadataName string `json:"metadata.name"`
	} `json:"props"`
	Metadata []pwMetadataEntry `json:"metadata"`
}

// Device is an audio card with its profile and port state.
type Device struct {
	ID          int
	Description string
	FormFactor  string
	Profile     Profile
	Profiles    []Profile
	Route       Profile
	Routes      []Profile
}

// Node is a sink or source endpoint.
type Node struct {
	ID           int
	MediaClass   string
	ObjectSerial int
	State        string
	NodeName     string
	Description  string
	Volumes      []float64
	Mute         bool
}

// Stream is a playing or recording application stream.
type Stream struct {
	ID           int
	MediaClass   string
	ObjectSerial int
	State        string
	MediaName    string
	AppName      string
	NodeName     string
	Volumes      []float64
	Mute         bool
}

// Name is "node-name:media-name", the display identity of a stream.
func (s *Stream) Name() string {
	return s.NodeName + ":" + s.MediaName
}

// Snapshot is one consistent view of the PipeWire graph plus the actions that
// modify it.
type Snapshot struct {
	runner *exe.Runner

	Devices []*Device
	Nodes   []*Node
	Streams []*Stream

	defaults map[string]string
	objects  []pwObject
}

// Dump captures the graph with pw-dump.
func Dump(ctx context.Context, runner *exe.Runner) (*Snapshot, error) {
	var objects []pwObject
	var lastErr error
	for attempt := 0; attempt < dumpRetries; attempt++ {
		result, err := runner.Run(ctx, "pw-dump", []string{"--no-colors"}, exe.Options{CaptureOutput: true})
		if err != nil {
			return nil, err
		}
		if lastErr = json.Unmarshal([]byte(result.Stdout), &objects); lastErr == nil {
			break
		}
		logging.L().Debug("pw-dump produced invalid JSON, retrying", zap.Error(lastErr))
	}
	if lastErr != nil {
		return nil, errors.Wrap(lastErr, errors.ExecFailed, "pw-dump kept producing invalid JSON")
	}

	s := &Snapshot{runner: runner, defaults: make(map[string]string)}
	for _, object := range objects {
		switch object.Type {
		case typeDevice, typeMetadata, typeNode, typeLink, typePort:
			s.objects = append(s.objects, object)
		}
	}
	s.build()
	return s, nil
}

func (s *Snapshot) build() {
	for _, object := range s.objects {
		switch {
		case object.Type == typeDevice && object.Info != nil &&
			object.Info.Props.MediaClass == ClassAudioDevice:
			device := &Device{
				ID:          object.ID,
				Description: object.Info.Props.DeviceDescription,
				FormFactor:  object.Info.Props.DeviceFormFactor,
				Profiles:    object.Info.Params.EnumProfile,
				Routes:      object.Info.Params.EnumRoute,
			}
			if len(object.Info.Params.Profile) > 0 {
				device.Profile = object.Info.Params.Profile[0]
			}
			if len(object.Info.Params.Route) > 0 {
				device.Route = object.Info.Params.Route[0]
			}
			s.Devices = append(s.Devices, device)

		case object.Type == typeNode && object.Info != nil &&
			(object.Info.Props.MediaClass == ClassAudioSink ||
				object.Info.Props.MediaClass == ClassAudioSource):
			node := &Node{
				ID:           object.ID,
				MediaClass:   object.Info.Props.MediaClass,
				ObjectSerial: object.Info.Props.ObjectSerial,
				State:        object.Info.State,
				NodeName:     object.Info.Props.NodeName,
				Description:  object.Info.Props.NodeDescription,
			}
			if len(object.Info.Params.Props) > 0 {
				node.Volumes = object.Info.Params.Props[0].ChannelVolumes
				node.Mute = object.Info.Params.Props[0].Mute
			}
			s.Nodes = append(s.Nodes, node)

		case object.Type == typeNode && object.Info != nil &&
			(object.Info.Props.MediaClass == ClassStreamInputAudio ||
				object.Info.Props.MediaClass == ClassStreamOutputAudio):
			// Pavucontrol's peak-detect streams are plumbing, not content.
			if object.Info.Props.MediaName == "Peak detect" {
				continue
			}
			stream := &Stream{
				ID:           object.ID,
				MediaClass:   object.Info.Props.MediaClass,
				ObjectSerial: object.Info.Props.ObjectSerial,
				State:        object.Info.State,
				MediaName:    object.Info.Props.MediaName,
				AppName:      object.Info.Props.ApplicationName,
				NodeName:     object.Info.Props.NodeName,
			}
			if len(object.Info.Params.Props) > 0 {
				stream.Volumes = object.Info.Params.Props[0].ChannelVolumes
				stream.Mute = object.Info.Params.Props[0].Mute
			}
			s.Streams = append(s.Streams, stream)

		case object.Type == typeMetadata && object.Props.MetadataName == "default":
			for _, entry := range object.Metadata {
				switch entry.Key {
				case "default.audio.sink", "default.audio.source",
					"default.configured.audio.sink", "default.configured.audio.source":
					var value struct {
						Name string `json:"name"`
					}
					if err := json.Unmarshal(entry.Value, &value); err == nil {
						s.defaults[entry.Key] = value.Name
					}
				}
			}
		}
	}
}

// Volume converts a node's first channel volume to the 0-100 scale wpctl
// shows, undoing the cubic volume curve.
func Volume(volumes []float64) int {
	if len(volumes) == 0 {
		return 0
	}
	return int(100 * math.Cbrt(volumes[0]))
}

// Sinks returns the sink endpoints.
func (s *Snapshot) Sinks() []*Node {
	return s.nodesByClass(ClassAudioSink)
}

// Sources returns the source endpoints.
func (s *Snapshot) Sources() []*Node {
	return s.nodesByClass(ClassAudioSource)
}

func (s *Snapshot) nodesByClass(class string) []*Node {
	var nodes []*Node
	for _, node := range s.Nodes {
		if node.MediaClass == class {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// DefaultSink returns the default sink, or nil when metadata names none.
func (s *Snapshot) DefaultSink() *Node {
	return s.nodeByName(s.defaults["default.audio.sink"])
}

// DefaultSource returns the default source, or nil when metadata names none.
func (s *Snapshot) DefaultSource() *Node {
	return s.nodeByName(s.defaults["default.audio.source"])
}

func (s *Snapshot) nodeByName(name string) *Node {
	if name == "" {
		return nil
	}
	for _, node := range s.Nodes {
		if node.NodeName == name {
			return node
		}
	}
	return nil
}

// DeviceByID returns the device with that graph id, or nil.
func (s *Snapshot) DeviceByID(id int) *Device {
	for _, device := range s.Devices {
		if device.ID == id {
			return device
		}
	}
	return nil
}

// NodeByID returns the sink or source with that graph id, or nil.
func (s *Snapshot) NodeByID(id int) *Node {
	for _, node := range s.Nodes {
		if node.ID == id {
			return node
		}
	}
	return nil
}

// StreamByID returns the stream with that graph id, or nil.
func (s *Snapshot) StreamByID(id int) *Stream {
	for _, stream := range s.Streams {
		if stream.ID == id {
			return stream
		}
	}
	return nil
}

// StreamTarget walks port and link objects to find the sink a stream plays on
// (kind "sink") or the source it records from (kind "source").
func (s *Snapshot) StreamTarget(streamID int, kind string) *Node {
	direction := "out"
	if kind == "source" {
		direction = "in"
	}
	var port *pwObject
	for i, object := range s.objects {
		if object.Type == typePort && object.Info != nil &&
			object.Info.Props.NodeID == streamID &&
			object.Info.Props.PortDirection == direction {
			port = &s.objects[i]
			break
		}
	}
	if port == nil {
		return nil
	}

	candidates := s.Sinks()
	if kind == "source" {
		candidates = s.Sources()
	}
	ids := make(map[int]bool, len(candidates))
	for _, node := range candidates {
		ids[node.ID] = true
	}

	for _, object := range s.objects {
		if object.Type != typeLink || object.Info == nil {
			continue
		}
		var matches bool
		var targetID int
		if kind == "sink" {
			matches = object.Info.OutputPortID == port.ID && ids[object.Info.Props.LinkInputNode]
			targetID = object.Info.InputNodeID
		} else {
			matches = object.Info.InputPortID == port.ID && ids[object.Info.Props.LinkOutputNode]
			targetID = object.Info.OutputNodeID
		}
		if matches {
			return s.NodeByID(targetID)
		}
	}
	return nil
}

func (s *Snapshot) run(ctx context.Context, command string, args ...string) error {
	logging.L().Info("audio action",
		zap.String("command", command),
		zap.Strings("args", args))
	_, err := s.runner.Run(ctx, command, args, exe.Options{CaptureOutput: true})
	return err
}

// SetDefault makes the node the default sink or source.
func (s *Snapshot) SetDefault(ctx context.Context, nodeID int) error {
	return s.run(ctx, "wpctl", "set-default", strconv.Itoa(nodeID))
}

// SetDeviceProfile activates a device profile. pw-cli is used instead of
// wpctl because pavucontrol misses profile changes made through wpctl.
func (s *Snapshot) SetDeviceProfile(ctx context.Context, deviceID, profileIndex int) error {
	return s.run(ctx, "pw-cli", "set-param", strconv.Itoa(deviceID),
		"Profile", fmt.Sprintf("{ index = %d }", profileIndex))
}

// SetDeviceRoute activates a device port.
func (s *Snapshot) SetDeviceRoute(ctx context.Context, deviceID, routeIndex int) error {
	return s.run(ctx, "wpctl", "set-route", strconv.Itoa(deviceID), strconv.Itoa(routeIndex))
}

// MuteToggle flips a node's mute state.
func (s *Snapshot) MuteToggle(ctx context.Context, nodeID int) error {
	return s.run(ctx, "wpctl", "set-mute", strconv.Itoa(nodeID), "toggle")
}

// VolumeModify changes a node's volume by delta percent.
func (s *Snapshot) VolumeModify(ctx context.Context, nodeID, delta int) error {
	suffix := fmt.Sprintf("%d%%+", delta)
	if delta < 0 {
		suffix = fmt.Sprintf("%d%%-", -delta)
	}
	return s.run(ctx, "wpctl", "set-volume", strconv.Itoa(nodeID), suffix)
}

// MoveStream reroutes a stream to another sink or source. pactl addresses
// both ends by object serial.
func (s *Snapshot) MoveStream(ctx context.Context, streamID, destinationID int) error {
	stream := s.StreamByID(streamID)
	destination := s.NodeByID(destinationID)
	if stream == nil || destination == nil {
		return errors.New(errors.InternalError, "stream or destination vanished from the graph")
	}
	command := "move-sink-input"
	if stream.MediaClass == ClassStreamInputAudio {
		command = "move-source-output"
	}
	return s.run(ctx, "pactl", command,
		strconv.Itoa(stream.ObjectSerial), strconv.Itoa(destination.ObjectSerial))
}
