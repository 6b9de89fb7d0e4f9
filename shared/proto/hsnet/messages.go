package hsnet

import (
	"github.com/go-gl/mathgl/mgl64"

	"HotspotVision/shared/hotspot"
	"HotspotVision/shared/pkg/protowire"
)

// TimelineRequest pede a timeline de um hotspot dinâmico pelo caminho.
type TimelineRequest struct {
	RequestID uint64
	Path      string
}

// TimelineResponse responde um TimelineRequest. Found=false com Error
// preenchido indica falha; o hotspot fica inerte no cliente.
type TimelineResponse struct {
	RequestID uint64
	Path      string
	Found     bool
	Error     string
	Instants  []InstantMsg
}

// InstantMsg é um instante no fio. Instantes ocultos trafegam como NaN.
type InstantMsg struct {
	Time    float64
	X, Y, Z float64
}

// HotspotEvent relata um evento de ponteiro disparado no cliente.
type HotspotEvent struct {
	Key        string
	Event      string
	VideoTime  float64
	UnixMillis int64
}

// ServerStatus é enviado periodicamente pelo servidor.
type ServerStatus struct {
	Timelines  int32
	Events     int64
	Clients    int32
	CPUPercent float64
	MemUsedMB  float64
	UptimeSec  int64
	Version    string
}

// InstantsFromTimeline converte uma timeline para o formato de fio.
func InstantsFromTimeline(tl hotspot.Timeline) []InstantMsg {
	out := make([]InstantMsg, len(tl))
	for i, inst := range tl {
		out[i] = InstantMsg{Time: inst.Time, X: inst.Position[0], Y: inst.Position[1], Z: inst.Position[2]}
	}
	return out
}

// Timeline reconstrói a timeline recebida.
func (m *TimelineResponse) Timeline() hotspot.Timeline {
	tl := make(hotspot.Timeline, len(m.Instants))
	for i, in := range m.Instants {
		tl[i] = hotspot.Instant{Time: in.Time, Position: mgl64.Vec3{in.X, in.Y, in.Z}}
	}
	return tl
}

func (m *TimelineRequest) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeUvarint(1, m.RequestID)
	e.EncodeString(2, m.Path)
	return e.Bytes()
}

func (m *TimelineRequest) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.RequestID = uint64(v)
		case 2:
			v, err := d.ReadString()
			if err != nil {
				return err
			}
			m.Path = v
		default:
			if err := d.SkipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *TimelineResponse) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeUvarint(1, m.RequestID)
	e.EncodeString(2, m.Path)
	e.EncodeBool(3, m.Found)
	e.EncodeString(4, m.Error)
	for _, in := range m.Instants {
		e.EncodeSubmessage(5, in.Marshal())
	}
	return e.Bytes()
}

func (m *TimelineResponse) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.RequestID = uint64(v)
		case 2:
			v, err := d.ReadString()
			if err != nil {
				return err
			}
			m.Path = v
		case 3:
			v, err := d.ReadBool()
			if err != nil {
				return err
			}
			m.Found = v
		case 4:
			v, err := d.ReadString()
			if err != nil {
				return err
			}
			m.Error = v
		case 5:
			sub, err := d.ReadBytes()
			if err != nil {
				return err
			}
			var in InstantMsg
			if err := in.Unmarshal(sub); err != nil {
				return err
			}
			m.Instants = append(m.Instants, in)
		default:
			if err := d.SkipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

// Marshal sempre escreve os quatro campos: zero e NaN são significativos.
func (m *InstantMsg) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeDouble(1, m.Time)
	e.EncodeDouble(2, m.X)
	e.EncodeDouble(3, m.Y)
	e.EncodeDouble(4, m.Z)
	return e.Bytes()
}

func (m *InstantMsg) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		var dst *float64
		switch fieldNum {
		case 1:
			dst = &m.Time
		case 2:
			dst = &m.X
		case 3:
			dst = &m.Y
		case 4:
			dst = &m.Z
		default:
			if err := d.SkipField(wireType); err != nil {
				return err
			}
			continue
		}
		if err := protowire.Expect(fieldNum, wireType, protowire.Wire64Bit); err != nil {
			return err
		}
		v, err := d.ReadDouble()
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func (m *HotspotEvent) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeString(1, m.Key)
	e.EncodeString(2, m.Event)
	e.EncodeDouble(3, m.VideoTime)
	e.EncodeVarint(4, m.UnixMillis)
	return e.Bytes()
}

func (m *HotspotEvent) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadString()
			if err != nil {
				return err
			}
			m.Key = v
		case 2:
			v, err := d.ReadString()
			if err != nil {
				return err
			}
			m.Event = v
		case 3:
			v, err := d.ReadDouble()
			if err != nil {
				return err
			}
			m.VideoTime = v
		case 4:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.UnixMillis = v
		default:
			if err := d.SkipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *ServerStatus) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.Timelines))
	e.EncodeVarint(2, m.Events)
	e.EncodeVarint(3, int64(m.Clients))
	e.EncodeDouble(4, m.CPUPercent)
	e.EncodeDouble(5, m.MemUsedMB)
	e.EncodeVarint(6, m.UptimeSec)
	e.EncodeString(7, m.Version)
	return e.Bytes()
}

func (m *ServerStatus) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Timelines = int32(v)
		case 2:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Events = v
		case 3:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Clients = int32(v)
		case 4:
			v, err := d.ReadDouble()
			if err != nil {
				return err
			}
			m.CPUPercent = v
		case 5:
			v, err := d.ReadDouble()
			if err != nil {
				return err
			}
			m.MemUsedMB = v
		case 6:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.UptimeSec = v
		case 7:
			v, err := d.ReadString()
			if err != nil {
				return err
			}
			m.Version = v
		default:
			if err := d.SkipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}
