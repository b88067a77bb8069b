package spin

import "github.com/Krimson/reelspin/internal/shake"

// glitchReel барабан, угол которого повторяют слот и надпись
const glitchReel = 1

type effects struct {
	cameraShake   bool
	slotGlitch    bool
	captionGlitch bool

	slot    SlotPose
	caption CaptionPose
}

// SlotPose поворот корпуса слота
type SlotPose struct {
	RotationY float64 `json:"rotation_y"`
}

// CaptionPose поворот и смещение надписи относительно исходной позиции
type CaptionPose struct {
	RotationY float64 `json:"rotation_y"`
	RotationZ float64 `json:"rotation_z"`
	OffsetZ   float64 `json:"offset_z"`
}

// EffectsState включённые эффекты и параметры дрожания камеры
type EffectsState struct {
	CameraShake     bool    `json:"camera_shake"`
	SlotGlitch      bool    `json:"slot_glitch"`
	CaptionGlitch   bool    `json:"caption_glitch"`
	ShakesPerSecond float64 `json:"shakes_per_second"`
	ShakeAmplitude  float64 `json:"shake_amplitude"`
}

// SetCameraShake включает дрожание; при выключении камера возвращается в исходную точку
func (o *Orchestrator) SetCameraShake(enabled bool) {
	o.effects.cameraShake = enabled
	if !enabled {
		o.camera.Reset()
	}
}

func (o *Orchestrator) SetShakeAmplitude(amplitude float64) {
	o.camera.SetAmplitude(amplitude)
}

func (o *Orchestrator) SetShakeFrequency(shakesPerSecond float64) {
	o.camera.SetFrequency(shakesPerSecond)
}

// SetSlotGlitch слот вращается вслед за средним барабаном
func (o *Orchestrator) SetSlotGlitch(enabled bool) {
	o.effects.slotGlitch = enabled
	if !enabled {
		o.effects.slot = SlotPose{}
	}
}

// SetCaptionGlitch надпись вращается и выезжает вслед за средним барабаном
func (o *Orchestrator) SetCaptionGlitch(enabled bool) {
	o.effects.captionGlitch = enabled
	if !enabled {
		o.effects.caption = CaptionPose{}
	}
}

func (o *Orchestrator) Effects() EffectsState {
	return EffectsState{
		CameraShake:     o.effects.cameraShake,
		SlotGlitch:      o.effects.slotGlitch,
		CaptionGlitch:   o.effects.captionGlitch,
		ShakesPerSecond: o.camera.Frequency(),
		ShakeAmplitude:  o.camera.Amplitude(),
	}
}

func (o *Orchestrator) updateGlitch() {
	if !o.effects.slotGlitch && !o.effects.captionGlitch {
		return
	}

	r := o.reels[glitchReel]
	angle := r.Angle() - r.Shift()

	if o.effects.slotGlitch {
		o.effects.slot = SlotPose{RotationY: angle}
	}
	if o.effects.captionGlitch {
		o.effects.caption = CaptionPose{
			RotationY: angle,
			RotationZ: angle,
			OffsetZ:   angle / 2,
		}
	}
}

// Frame снимок состояния для отрисовки
type Frame struct {
	State         State              `json:"state"`
	CurrentNumber int                `json:"current_number"`
	Pending       []int              `json:"pending"`
	Reels         [ReelCount]float64 `json:"reels"`
	Camera        shake.Vec3         `json:"camera"`
	Slot          SlotPose           `json:"slot"`
	Caption       CaptionPose        `json:"caption"`
	Effects       EffectsState       `json:"effects"`
}

// Frame возвращает снимок текущего состояния
func (o *Orchestrator) Frame() Frame {
	return Frame{
		State:         o.state,
		CurrentNumber: o.currentNumber,
		Pending:       o.Pending(),
		Reels:         o.ReelAngles(),
		Camera:        o.camera.Point(),
		Slot:          o.effects.slot,
		Caption:       o.effects.caption,
		Effects:       o.Effects(),
	}
}
