package renderer

const litVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

out vec3 FragPos;
out vec3 Normal;
out vec2 TexCoord;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

void main() {
    vec4 worldPos = model * vec4(aPos, 1.0);
    FragPos = worldPos.xyz;
    Normal = mat3(transpose(inverse(model))) * aNormal;
    TexCoord = aTexCoord;
    gl_Position = projection * view * worldPos;
}
`

const litFragmentShader = `
#version 410 core

in vec3 FragPos;
in vec3 Normal;
in vec2 TexCoord;

out vec4 FragColor;

uniform vec3 baseColor;
uniform vec3 lightPos;
uniform float ambientStrength;
uniform bool useTexture;
uniform bool useWorldTex;
uniform float worldTexScale;
uniform sampler2D diffuseTex;

void main() {
    vec3 color = baseColor;
    if (useTexture) {
        vec2 uv = useWorldTex ? FragPos.xz * worldTexScale : TexCoord;
        color = texture(diffuseTex, uv).rgb;
    }

    vec3 ambient = ambientStrength * color;
    vec3 norm = normalize(Normal);
    vec3 lightDir = normalize(lightPos - FragPos);
    float diff = max(dot(norm, lightDir), 0.0);
    vec3 diffuse = diff * color;

    FragColor = vec4(ambient + diffuse, 1.0);
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

out vec3 vertexColor;

uniform mat4 viewProj;

void main() {
    gl_Position = viewProj * vec4(aPos, 1.0);
    vertexColor = aColor;
}
`

const lineFragmentShader = `
#version 410 core

in vec3 vertexColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(vertexColor, 1.0);
}
`
