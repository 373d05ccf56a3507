package usecase

import "github.com/rightslab/edurag/internal/core/domain"

// The instruction blocks and worked examples below are configuration data:
// their wording anchors the tone and depth of each difficulty level and is
// embedded verbatim in the prompt.

var difficultyInstructions = map[domain.Difficulty]string{
	domain.DifficultyBeginner: `- Use simple, everyday language
- Avoid legal jargon unless you explain it
- Provide concrete examples (e.g., "Like the right to go to school")
- Use analogies ("Think of it like...")
- Keep explanations brief and clear
- Focus on practical understanding
- Start with simplest explanation first`,

	domain.DifficultyIntermediate: `- Balance technical accuracy with accessibility
- Use legal terminology when appropriate, with context
- Provide structured explanations with examples
- Include relevant details without overwhelming
- Connect concepts to real-world applications`,

	domain.DifficultyAdvanced: `- Use precise legal and academic terminology
- Reference specific articles and frameworks
- Provide comprehensive analysis
- Include nuanced interpretations
- Connect to broader human rights discourse`,
}

var difficultyExamples = map[domain.Difficulty]string{
	domain.DifficultyBeginner: `**Example 1:**
Q: What are human rights?
A: Human rights are basic rights and freedoms that belong to every person in the world, from birth until death. They include things like the right to life, freedom from torture, freedom of speech, and the right to education. Think of them as the fundamental things everyone deserves, no matter who they are or where they live.

**Key Points:**
- Universal (for everyone)
- Protect human dignity
- Can't be taken away

**Example 2:**
Q: Why are human rights important?
A: Human rights are important because they protect people from harm and ensure everyone is treated fairly. For example, the right to education means all children can go to school. The right to freedom of speech means you can express your opinions. These rights help create a society where everyone can live safely and pursue their goals.`,

	domain.DifficultyIntermediate: `**Example:**
Q: What is the relationship between civil-political rights and economic-social-cultural rights?
A: Civil and political rights (like freedom of speech and voting rights) and economic, social, and cultural rights (like the right to education and adequate housing) are interdependent and mutually reinforcing.

**The Connection:**
The 1993 Vienna Declaration emphasizes that all human rights are "universal, indivisible and interdependent and interrelated." This means:
- You need freedom of expression (civil right) to advocate for better working conditions (economic right)
- Access to education (social right) enables political participation (political right)
- Economic security supports the exercise of cultural rights

**Key Framework:**
Both sets of rights are protected under international law through the ICCPR (civil-political) and ICESCR (economic-social-cultural) covenants, which together with the UDHR form the International Bill of Human Rights.`,

	domain.DifficultyAdvanced: `**Example:**
Q: How does Article 29 of the UDHR establish the framework for limitations on rights?
A: Article 29 of the Universal Declaration of Human Rights establishes the foundational principles for permissible limitations on rights and freedoms, creating a delicate balance between individual liberties and communal responsibilities.

**Legal Framework:**
Article 29 articulates three critical dimensions:

1. **Duties to Community** (Article 29.1): Establishes that rights exist within a social context where "everyone has duties to the community in which alone the free and full development of his personality is possible." This reflects the principle that rights and responsibilities are correlative.

2. **Permissible Limitations** (Article 29.2): Limitations must be "determined by law" and serve legitimate aims: "due recognition and respect for the rights and freedoms of others" and "just requirements of morality, public order and the general welfare in a democratic society."

3. **Adherence to UN Principles** (Article 29.3): Rights cannot be exercised "contrary to the purposes and principles of the United Nations," ensuring alignment with international peace, security, and human dignity.

**Interpretive Significance:**
This tripartite structure provides the doctrinal foundation for proportionality analysis in human rights adjudication, requiring that any restriction be: (1) prescribed by law, (2) pursue a legitimate aim, and (3) be necessary and proportionate in a democratic society.`,
}
