package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// sceneVertSrc transforms vertices into camera space. Lighting and shadow
// lookups all happen in camera space, so the fragment shader only needs the
// interpolated view-space position and normal.
const sceneVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

uniform mat4 uProjection;
uniform mat4 uModelView;

out vec3 viewPos;
out vec3 viewNormal;
out vec2 uv;

void main() {
    vec4 p = uModelView * vec4(inPosition, 1.0);
    viewPos = p.xyz;
    viewNormal = mat3(uModelView) * inNormal;
    uv = inUV;
    gl_Position = uProjection * p;
}
` + "\x00"

// sceneFragSrc shades with one directional light plus point lights, samples
// the directional shadow map and omni distance cube maps, and can switch to
// writing the camera-to-fragment distance for omni shadow generation.
const sceneFragSrc = `
#version 410 core
in vec3 viewPos;
in vec3 viewNormal;
in vec2 uv;

out vec4 outColor;

uniform int   uOutputMode;   // 0 = shaded color, 1 = camera distance
uniform int   uUnlit;
uniform vec4  uDiffuse;
uniform vec3  uSpecular;
uniform float uShininess;
uniform float uOpacity;
uniform vec3  uAmbient;

uniform int   uLightCount;
uniform int   uLightType[4];      // 0 = directional, 1 = point
uniform vec3  uLightPos[4];       // camera space; toward-light dir if directional
uniform vec3  uLightColor[4];
uniform float uLightAttenuation[4];

uniform int   uShadowCount;
uniform mat4  uShadowMatrix0;
uniform sampler2DShadow uShadowMap0;

uniform int         uOmniShadowCount;
uniform samplerCube uOmniShadowMap[3];

uniform int         uHasEnvMap;
uniform samplerCube uEnvMap;

float directionalShadow() {
    if (uShadowCount < 1) {
        return 1.0;
    }
    vec4 sc = uShadowMatrix0 * vec4(viewPos, 1.0);
    if (sc.w <= 0.0) {
        return 1.0;
    }
    return textureProj(uShadowMap0, sc);
}

float omniShadow(int slot, vec3 toLight) {
    float nearest = texture(uOmniShadowMap[slot], -toLight).r;
    return length(toLight) - 0.01 * length(toLight) <= nearest ? 1.0 : 0.0;
}

void main() {
    if (uOutputMode == 1) {
        outColor = vec4(length(viewPos), 0.0, 0.0, 0.0);
        return;
    }

    if (uUnlit == 1) {
        outColor = vec4(uDiffuse.rgb, uDiffuse.a * uOpacity);
        return;
    }

    vec3 n = normalize(viewNormal);
    vec3 color = uAmbient * uDiffuse.rgb;
    int omniSlot = 0;

    for (int i = 0; i < uLightCount; i++) {
        vec3 toLight;
        float atten = 1.0;
        float shadow = 1.0;

        if (uLightType[i] == 0) {
            toLight = normalize(uLightPos[i]);
            shadow = directionalShadow();
        } else {
            vec3 d = uLightPos[i] - viewPos;
            toLight = normalize(d);
            atten = 1.0 / (1.0 + uLightAttenuation[i] * dot(d, d));
            if (omniSlot < uOmniShadowCount) {
                shadow = omniShadow(omniSlot, d);
                omniSlot++;
            }
        }

        float diff = max(dot(n, toLight), 0.0);
        color += shadow * atten * diff * uLightColor[i] * uDiffuse.rgb;

        if (uShininess > 1.0) {
            vec3 h = normalize(toLight + normalize(-viewPos));
            float spec = pow(max(dot(n, h), 0.0), uShininess);
            color += shadow * atten * spec * uLightColor[i] * uSpecular;
        }
    }

    if (uHasEnvMap == 1) {
        vec3 r = reflect(normalize(viewPos), n);
        color = mix(color, texture(uEnvMap, r).rrr, 0.15);
    }

    outColor = vec4(color, uDiffuse.a * uOpacity);
}
` + "\x00"

// CompileProgram compiles a vertex/fragment source pair and links them into
// a program. Both stages are compiled before linking; on any failure the
// partially built program is released and the driver's info log is carried
// in the returned error.
func CompileProgram(vertSrc, fragSrc string) (uint32, error) {
	stages := [2]struct {
		kind  uint32
		label string
		src   string
	}{
		{gl.VERTEX_SHADER, "vertex stage", vertSrc},
		{gl.FRAGMENT_SHADER, "fragment stage", fragSrc},
	}

	prog := gl.CreateProgram()
	var shaders [2]uint32

	for i, stage := range stages {
		sh := gl.CreateShader(stage.kind)
		ptrs, release := gl.Strs(stage.src)
		gl.ShaderSource(sh, 1, ptrs, nil)
		release()
		gl.CompileShader(sh)

		if !compileOK(sh, gl.COMPILE_STATUS) {
			log := shaderInfoLog(sh)
			gl.DeleteShader(sh)
			for _, prev := range shaders[:i] {
				gl.DetachShader(prog, prev)
				gl.DeleteShader(prev)
			}
			gl.DeleteProgram(prog)
			return 0, fmt.Errorf("%s: %s", stage.label, log)
		}

		gl.AttachShader(prog, sh)
		shaders[i] = sh
	}

	gl.LinkProgram(prog)

	// The shader objects are no longer needed once the program exists.
	for _, sh := range shaders {
		gl.DetachShader(prog, sh)
		gl.DeleteShader(sh)
	}

	if !linkOK(prog) {
		log := programInfoLog(prog)
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link: %s", log)
	}

	return prog, nil
}

func compileOK(shader, statusParam uint32) bool {
	var ok int32
	gl.GetShaderiv(shader, statusParam, &ok)
	return ok == gl.TRUE
}

func linkOK(prog uint32) bool {
	var ok int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &ok)
	return ok == gl.TRUE
}

func shaderInfoLog(shader uint32) string {
	var length int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
	if length <= 1 {
		return "no info log"
	}
	buf := make([]byte, length)
	gl.GetShaderInfoLog(shader, length, nil, &buf[0])
	return trimInfoLog(buf)
}

func programInfoLog(prog uint32) string {
	var length int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &length)
	if length <= 1 {
		return "no info log"
	}
	buf := make([]byte, length)
	gl.GetProgramInfoLog(prog, length, nil, &buf[0])
	return trimInfoLog(buf)
}

func trimInfoLog(buf []byte) string {
	return strings.TrimRight(string(buf), "\x00\r\n")
}
